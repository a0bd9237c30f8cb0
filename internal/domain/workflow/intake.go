package workflow

// NewIntakeMachine wires the intake transition table. exportGuard reports
// whether export artifacts exist; the export panel is unreachable without
// them. A failed operation never transitions: callers only fire triggers on
// success paths.
func NewIntakeMachine(exportGuard GuardFunc) Machine {
	return NewIntakeMachineAt(StageUpload, exportGuard)
}

// NewIntakeMachineAt builds the same transition table but starts at the
// given stage. Used when a persisted case is loaded back into memory.
func NewIntakeMachineAt(initial Stage, exportGuard GuardFunc) Machine {
	b := NewBuilder()

	b.Configure(StageUpload).
		Permit(TriggerExtractSucceeded, StageAnalise).
		Permit(TriggerNewInquiry, StageUpload)

	b.Configure(StageAnalise).
		Permit(TriggerEdit, StageAjuste).
		PermitIf(TriggerExportReady, StageExportacao, exportGuard).
		Permit(TriggerNewInquiry, StageUpload)

	b.Configure(StageAjuste).
		Permit(TriggerSave, StageAnalise).
		Permit(TriggerNewInquiry, StageUpload)

	b.Configure(StageExportacao).
		Permit(TriggerEdit, StageAjuste).
		Permit(TriggerNewInquiry, StageUpload)

	return b.Build(initial)
}
