// Package risk grades jurisdictions for the intake screen's visual hints.
// Both classifiers are pure, deterministic and never fail.
package risk

import "strings"

// Level is the coarse risk tier shown next to a jurisdiction choice.
type Level string

const (
	Favorable   Level = "bom"
	Unfavorable Level = "ruim"
	Neutral     Level = "neutro"
)

// unfavorable jurisdiction tokens, matched case-insensitively as substrings
var comarcaDenyList = []string{"RJ", "MATO GROSSO", "MT"}

// ClassifyComarca grades a free-text jurisdiction. Empty input is neutral;
// a deny-list hit is unfavorable; everything else is favorable.
func ClassifyComarca(comarca string) Level {
	if strings.TrimSpace(comarca) == "" {
		return Neutral
	}
	texto := strings.ToUpper(comarca)
	for _, token := range comarcaDenyList {
		if strings.Contains(texto, token) {
			return Unfavorable
		}
	}
	return Favorable
}

var (
	estadosBons  = map[string]bool{"MG": true, "SP": true, "PR": true}
	estadosRuins = map[string]bool{"RJ": true, "AM": true, "PA": true}
)

// ClassifyEstado grades a two-letter state code against fixed allow and
// deny lists, defaulting to neutral.
func ClassifyEstado(estado string) Level {
	uf := strings.ToUpper(strings.TrimSpace(estado))
	switch {
	case estadosBons[uf]:
		return Favorable
	case estadosRuins[uf]:
		return Unfavorable
	default:
		return Neutral
	}
}
