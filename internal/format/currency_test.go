package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", FormatBRL(1234.56))
	assert.Equal(t, "R$ 0,00", FormatBRL(0))
	assert.Equal(t, "R$ -700,00", FormatBRL(-700))
	assert.Equal(t, "R$ 0,00", FormatBRL(math.NaN()))
	assert.Equal(t, "R$ 0,00", FormatBRL(math.Inf(1)))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"1234,56", 1234.56},
		{"R$ 1.234,56", 1234.56},
		{"850,25", 850.25},
		{"", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, ParseAmount(tt.in), 1e-9, tt.in)
	}
}

func TestLongDateBR(t *testing.T) {
	d := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 de agosto de 2026", LongDateBR(d))

	d = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "15 de março de 2024", LongDateBR(d))
}
