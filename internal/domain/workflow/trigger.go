package workflow

// Trigger represents an event that can cause a stage transition.
type Trigger string

const (
	// TriggerExtractSucceeded fires after the gateway extraction succeeds.
	TriggerExtractSucceeded Trigger = "EXTRACT_SUCCEEDED"
	// TriggerEdit opens the installment editing panel.
	TriggerEdit Trigger = "EDIT"
	// TriggerSave closes the editing panel back into review.
	TriggerSave Trigger = "SAVE"
	// TriggerExportReady moves into the export panel once links exist.
	TriggerExportReady Trigger = "EXPORT_READY"
	// TriggerNewInquiry resets the workflow for a fresh intake.
	TriggerNewInquiry Trigger = "NEW_INQUIRY"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
