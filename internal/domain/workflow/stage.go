package workflow

// Stage is one of the intake panels; exactly one is interactive at a time.
type Stage string

const (
	// StageUpload is the initial panel where the extract PDF is submitted.
	StageUpload Stage = "upload"
	// StageAnalise is the review panel with case data and computed figures.
	StageAnalise Stage = "analise"
	// StageAjuste is the installment editing panel.
	StageAjuste Stage = "ajuste"
	// StageExportacao is the legacy export-links panel, reachable only once
	// export artifacts exist.
	StageExportacao Stage = "exportacao"
)

var validStages = map[Stage]bool{
	StageUpload:     true,
	StageAnalise:    true,
	StageAjuste:     true,
	StageExportacao: true,
}

// No stage is terminal: a new inquiry always returns the workflow to upload.

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// IsValid returns true if the stage is a known workflow stage.
func (s Stage) IsValid() bool {
	return validStages[s]
}
