package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "0₫", FormatVND(0))
	assert.Equal(t, "999₫", FormatVND(999))
	assert.Equal(t, "1.000₫", FormatVND(1000))
	assert.Equal(t, "150.000₫", FormatVND(150000))
	assert.Equal(t, "1.250.000₫", FormatVND(1250000))
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(4)
	assert.NoError(t, err)
	assert.Len(t, code, 8)

	other, err := GenerateCode(4)
	assert.NoError(t, err)
	assert.NotEqual(t, code, other)
}
