package intake

import (
	"math"
	"strings"

	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
	"github.com/leonardomol/pjmol-intake/internal/format"
)

// somaTolerancia is the accepted drift between the extract total and the
// installment sum.
const somaTolerancia = 0.01

// requiredField is one entry of the declarative sweep: label, current
// value and the minimum masked length, with zero meaning non-empty only.
type requiredField struct {
	label   string
	value   string
	minLen  int
	numeric float64
	isNum   bool
}

// ValidarCampos runs both required-field passes and returns the merged,
// de-duplicated error list. An empty result means generation may proceed.
// The admin-without-lawyer check is not part of this list; it blocks on its
// own before the field errors are ever shown.
func ValidarCampos(basicos entity.CaseRecord, manuais entity.ManualData, parcelas []entity.Parcela) []string {
	var faltando []string

	nome := strings.TrimSpace(basicos.NomeCliente)
	cpf := format.Digits(basicos.CPFCNPJ)
	telefone := format.Digits(manuais.Telefone)

	if nome == "" {
		faltando = append(faltando, "Nome")
	}
	if len(cpf) < 11 {
		faltando = append(faltando, "CPF/CNPJ")
	}
	if len(telefone) < 10 || len(telefone) > 11 {
		faltando = append(faltando, "Telefone")
	}
	if manuais.HonorariosPercentual <= 0 {
		faltando = append(faltando, "Honorários")
	}
	if strings.TrimSpace(manuais.ComarcaEscolhida) == "" {
		faltando = append(faltando, "Comarca")
	}

	soma := entity.SomaParcelas(parcelas)
	if math.Abs(basicos.ValorTotalPagoExtrato-soma) > somaTolerancia {
		faltando = append(faltando, "Soma das parcelas não confere com o valor do extrato")
	}

	faltando = append(faltando, sweepRequired(basicos, manuais)...)

	return dedupe(faltando)
}

// sweepRequired inspects every field the intake screen marks required,
// catching what the declarative pass does not cover: blank values, numeric
// fields at or below zero, masked fields shorter than their full mask.
func sweepRequired(basicos entity.CaseRecord, manuais entity.ManualData) []string {
	fields := []requiredField{
		{label: "Nome", value: basicos.NomeCliente},
		{label: "CPF/CNPJ", value: basicos.CPFCNPJ, minLen: 14},
		{label: "CEP", value: basicos.CEP, minLen: 9},
		{label: "Rua", value: basicos.Rua},
		{label: "Número", value: basicos.Numero},
		{label: "Bairro", value: basicos.Bairro},
		{label: "Cidade", value: basicos.Cidade},
		{label: "Estado", value: basicos.Estado},
		{label: "Administradora", value: basicos.Administradora},
		{label: "Telefone", value: manuais.Telefone, minLen: 14},
		{label: "Comarca", value: manuais.ComarcaEscolhida},
		{label: "Honorários", isNum: true, numeric: manuais.HonorariosPercentual},
		{label: "Valor Total do Extrato", isNum: true, numeric: basicos.ValorTotalPagoExtrato},
	}

	var faltando []string
	for _, f := range fields {
		switch {
		case f.isNum:
			if f.numeric <= 0 {
				faltando = append(faltando, f.label)
			}
		case strings.TrimSpace(f.value) == "":
			faltando = append(faltando, f.label)
		case f.minLen > 0 && len(f.value) < f.minLen:
			faltando = append(faltando, f.label)
		}
	}
	return faltando
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
