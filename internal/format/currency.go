package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders v as a Brazilian-locale currency string
// ("R$ 1.234,56"). Non-finite values format as zero.
func FormatBRL(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return brPrinter.Sprintf("R$ %v",
		number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// ParseAmount parses a user-entered amount where the decimal separator may
// be a comma. Empty or unparsable input yields zero.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		// comma decimal: dots are thousand separators
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

var brMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// LongDateBR renders t the way Brazilian legal documents date themselves,
// e.g. "3 de agosto de 2026".
func LongDateBR(t time.Time) string {
	return strconv.Itoa(t.Day()) + " de " + brMonths[t.Month()-1] + " de " + strconv.Itoa(t.Year())
}
