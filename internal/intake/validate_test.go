package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
)

func validCase() (entity.CaseRecord, entity.ManualData, []entity.Parcela) {
	basicos := entity.CaseRecord{
		NomeCliente:           "Maria Souza",
		CPFCNPJ:               "123.456.789-01",
		CEP:                   "30130-010",
		Rua:                   "Avenida Afonso Pena",
		Numero:                "100",
		Bairro:                "Centro",
		Cidade:                "Belo Horizonte",
		Estado:                "MG",
		Administradora:        "Consórcio Alfa",
		ValorTotalPagoExtrato: 1000,
	}
	manuais := entity.NewManualData()
	manuais.Telefone = "(31) 98888-7777"
	manuais.HonorariosPercentual = 20
	manuais.ComarcaEscolhida = "Belo Horizonte"

	parcelas := []entity.Parcela{{DataPagamento: "2024-01-01", ValorPago: 1000}}
	return basicos, manuais, parcelas
}

func TestValidarCamposCompleto(t *testing.T) {
	basicos, manuais, parcelas := validCase()
	assert.Empty(t, ValidarCampos(basicos, manuais, parcelas))
}

func TestValidarCamposSomaParcelas(t *testing.T) {
	basicos, manuais, parcelas := validCase()

	// within tolerance
	parcelas[0].ValorPago = 1000.01
	assert.Empty(t, ValidarCampos(basicos, manuais, parcelas))

	// outside tolerance
	parcelas[0].ValorPago = 1000.02
	faltando := ValidarCampos(basicos, manuais, parcelas)
	assert.Contains(t, faltando, "Soma das parcelas não confere com o valor do extrato")

	parcelas[0].ValorPago = 999.98
	faltando = ValidarCampos(basicos, manuais, parcelas)
	assert.Contains(t, faltando, "Soma das parcelas não confere com o valor do extrato")
}

func TestValidarCamposFaltantes(t *testing.T) {
	basicos, manuais, parcelas := validCase()
	basicos.NomeCliente = "   "
	basicos.CPFCNPJ = "123.456"
	manuais.Telefone = "(31) 9888"
	manuais.HonorariosPercentual = 0
	manuais.ComarcaEscolhida = ""

	faltando := ValidarCampos(basicos, manuais, parcelas)
	assert.Contains(t, faltando, "Nome")
	assert.Contains(t, faltando, "CPF/CNPJ")
	assert.Contains(t, faltando, "Telefone")
	assert.Contains(t, faltando, "Honorários")
	assert.Contains(t, faltando, "Comarca")
}

func TestValidarCamposDeduplica(t *testing.T) {
	basicos, manuais, parcelas := validCase()
	basicos.NomeCliente = ""

	// Nome fails both the declarative pass and the sweep, but appears once
	faltando := ValidarCampos(basicos, manuais, parcelas)
	count := 0
	for _, f := range faltando {
		if f == "Nome" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestValidarCamposSweepNumerico(t *testing.T) {
	basicos, manuais, parcelas := validCase()
	basicos.ValorTotalPagoExtrato = 0
	parcelas[0].ValorPago = 0

	faltando := ValidarCampos(basicos, manuais, parcelas)
	assert.Contains(t, faltando, "Valor Total do Extrato")
}
