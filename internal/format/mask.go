// Package format holds the display-format helpers for case intake fields:
// document masks, date conversion between ISO and Brazilian order, currency
// and judicial process-number formatting. All functions are pure and total;
// partial input produces a partial mask instead of an error.
package format

import (
	"regexp"
	"strings"
)

// FieldKind identifies which mask ApplyMask should use.
type FieldKind string

const (
	FieldCPF      FieldKind = "cpf"
	FieldCNPJ     FieldKind = "cnpj"
	FieldCPFCNPJ  FieldKind = "cpf_cnpj"
	FieldCEP      FieldKind = "cep"
	FieldTelefone FieldKind = "telefone"
)

var nonDigits = regexp.MustCompile(`\D`)

// Digits strips everything except 0-9 from s.
func Digits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ApplyMask strips non-digits from raw, truncates to the field's maximum
// digit count and re-inserts the separators for the given kind. Unknown
// kinds return raw unchanged.
func ApplyMask(kind FieldKind, raw string) string {
	digits := Digits(raw)

	switch kind {
	case FieldCPF:
		return maskCPF(truncate(digits, 11))
	case FieldCNPJ:
		return maskCNPJ(truncate(digits, 14))
	case FieldCPFCNPJ:
		if len(digits) <= 11 {
			return ApplyMask(FieldCPF, digits)
		}
		return ApplyMask(FieldCNPJ, digits)
	case FieldCEP:
		return maskCEP(truncate(digits, 8))
	case FieldTelefone:
		return maskTelefone(truncate(digits, 11))
	default:
		return raw
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func slice(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

// ###.###.###-##
func maskCPF(d string) string {
	if len(d) < 3 {
		return d
	}
	groups := []string{slice(d, 0, 3), slice(d, 3, 6), slice(d, 6, 9)}
	parts := groups[:0:3]
	for _, g := range groups {
		if g != "" {
			parts = append(parts, g)
		}
	}
	out := strings.Join(parts, ".")
	if dv := slice(d, 9, 11); dv != "" {
		out += "-" + dv
	}
	return out
}

// ##.###.###/####-##, trailing separators trimmed on partial input
func maskCNPJ(d string) string {
	if len(d) < 2 {
		return d
	}
	out := slice(d, 0, 2) + "." + slice(d, 2, 5) + "." + slice(d, 5, 8) +
		"/" + slice(d, 8, 12) + "-" + slice(d, 12, 14)
	return strings.TrimRight(out, "-/.")
}

// #####-###
func maskCEP(d string) string {
	if len(d) <= 5 {
		return d
	}
	return d[:5] + "-" + d[5:]
}

// (##) #####-####
func maskTelefone(d string) string {
	if len(d) < 2 {
		return d
	}
	out := "(" + d[:2] + ") " + slice(d, 2, 7)
	if rest := slice(d, 7, 11); rest != "" {
		out += "-" + rest
	}
	return out
}

// FormatNumeroProcesso inserts the judicial process-number separators into a
// digit string at the conventional offsets (NNNNNNN-DD.AAAA.J.TR.OOOO),
// capped at 20 digits. Partial input keeps whatever separators already fit.
func FormatNumeroProcesso(raw string) string {
	v := truncate(Digits(raw), 20)
	if len(v) >= 7 {
		v = v[:7] + "-" + v[7:]
	}
	if len(v) >= 10 {
		v = v[:10] + "." + v[10:]
	}
	if len(v) >= 15 {
		v = v[:15] + "." + v[15:]
	}
	if len(v) >= 17 {
		v = v[:17] + "." + v[17:]
	}
	if len(v) >= 20 {
		v = v[:20]
	}
	return v
}

var comarcaPrefix = regexp.MustCompile(`(?i)^COMARCA DE\s+`)

// NormalizeComarca strips the leading "COMARCA DE" prefix the jurisdiction
// registry prepends, for display and payload use.
func NormalizeComarca(comarca string) string {
	return strings.TrimSpace(comarcaPrefix.ReplaceAllString(comarca, ""))
}
