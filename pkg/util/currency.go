package util

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var vndPrinter = message.NewPrinter(language.Vietnamese)

// FormatVND renders a whole-unit amount with Vietnamese digit grouping
// and the dong sign, e.g. 150000 -> "150.000₫".
func FormatVND(amount int64) string {
	return vndPrinter.Sprintf("%d", amount) + "₫"
}
