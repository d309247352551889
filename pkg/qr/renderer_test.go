package qr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGRenderer_Render(t *testing.T) {
	r := NewPNGRenderer(300)

	img, err := r.Render("momo://transfer?amount=150000")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
}

func TestPNGRenderer_Deterministic(t *testing.T) {
	r := NewPNGRenderer(300)

	a, err := r.Render("payload")
	require.NoError(t, err)
	b, err := r.Render("payload")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPNGRenderer_EmptyPayload(t *testing.T) {
	r := NewPNGRenderer(300)

	_, err := r.Render("")
	assert.Error(t, err)
}
