// Package export writes the spreadsheet and JSON artifacts for a finished
// case into the backend's static output directory.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/leonardomol/pjmol-intake/internal/domain/entity"
	"github.com/leonardomol/pjmol-intake/internal/format"
	"github.com/leonardomol/pjmol-intake/internal/intake"
)

// Service writes export artifacts to a directory served as static files.
type Service struct {
	dir    string
	logger *zap.Logger
}

// NewService creates an export service writing into dir.
func NewService(dir string, logger *zap.Logger) *Service {
	return &Service{dir: dir, logger: logger}
}

// Export writes the installment spreadsheet and the JSON snapshot, and
// returns their filenames.
func (s *Service) Export(id string, basicos entity.CaseRecord, manuais entity.ManualData, parcelas []entity.Parcela, resumo intake.Summary) (intake.ExportLinks, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return intake.ExportLinks{}, fmt.Errorf("failed to create export dir: %w", err)
	}

	base := "caso_" + shortID(id)
	excelName := base + ".xlsx"
	jsonName := base + ".json"

	if err := s.writeSpreadsheet(filepath.Join(s.dir, excelName), basicos, manuais, parcelas, resumo); err != nil {
		return intake.ExportLinks{}, err
	}
	if err := s.writeJSON(filepath.Join(s.dir, jsonName), basicos, manuais, parcelas, resumo); err != nil {
		return intake.ExportLinks{}, err
	}

	s.logger.Info("Case exported",
		zap.String("case_id", id),
		zap.String("excel", excelName),
		zap.String("json", jsonName))

	return intake.ExportLinks{Excel: excelName, JSON: jsonName}, nil
}

func (s *Service) writeSpreadsheet(path string, basicos entity.CaseRecord, manuais entity.ManualData, parcelas []entity.Parcela, resumo intake.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	const parcelasSheet = "Parcelas"
	if err := f.SetSheetName("Sheet1", parcelasSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"Data", "Valor Pago", "Tipo", "Corrigido Hoje", "Corrigido Futuro", "Taxa Adm"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		s.setCell(f, parcelasSheet, cell, h)
	}
	for row, p := range parcelas {
		values := []any{
			format.ISOToBR(p.DataPagamento),
			p.ValorPago,
			p.Tipo,
			p.ValorCorrigidoHoje,
			p.ValorCorrigidoFuturo,
			p.TaxaAdmParcela,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			s.setCell(f, parcelasSheet, cell, v)
		}
	}

	const resumoSheet = "Resumo"
	if _, err := f.NewSheet(resumoSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	linhas := [][2]any{
		{"Cliente", basicos.NomeCliente},
		{"CPF/CNPJ", basicos.CPFCNPJ},
		{"Administradora", basicos.Administradora},
		{"Grupo", basicos.Grupo},
		{"Cota", basicos.Cota},
		{"Comarca", manuais.ComarcaEscolhida},
		{"Fase", string(manuais.FaseProcesso)},
		{"Total do Extrato", format.FormatBRL(basicos.ValorTotalPagoExtrato)},
		{"Soma das Parcelas", format.FormatBRL(resumo.SomaParcelas)},
		{"Total a Restituir", format.FormatBRL(basicos.ValorARestituir)},
		{"Honorários Hoje", format.FormatBRL(resumo.HonorariosHoje)},
		{"Custas Processuais", format.FormatBRL(resumo.CustasProcessuais)},
		{"Líquido Hoje", format.FormatBRL(resumo.LiquidoHoje)},
	}
	if resumo.LiquidoFuturo != nil {
		linhas = append(linhas, [2]any{"Líquido Futuro", format.FormatBRL(*resumo.LiquidoFuturo)})
	}
	for i, linha := range linhas {
		s.setCell(f, resumoSheet, fmt.Sprintf("A%d", i+1), linha[0])
		s.setCell(f, resumoSheet, fmt.Sprintf("B%d", i+1), linha[1])
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return nil
}

func (s *Service) writeJSON(path string, basicos entity.CaseRecord, manuais entity.ManualData, parcelas []entity.Parcela, resumo intake.Summary) error {
	snapshot := struct {
		DadosBasicos entity.CaseRecord `json:"dados_basicos"`
		DadosManuais entity.ManualData `json:"dados_manuais"`
		Parcelas     []entity.Parcela  `json:"parcelas"`
		Resumo       intake.Summary    `json:"resumo"`
	}{basicos, manuais, parcelas, resumo}

	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (s *Service) setCell(f *excelize.File, sheet, cell string, value any) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		s.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
