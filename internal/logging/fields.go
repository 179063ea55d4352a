package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType categorizes log events for filtering and telemetry.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step for the operator when an error is logged.
	FieldErrorHint = "error_hint"
	// FieldRunID is the standardized structured logging key for sync run identifiers.
	FieldRunID = "run_id"
	// FieldStep is the standardized structured logging key for sync step names.
	FieldStep = "step"
	// FieldScope is the standardized structured logging key for sync scope (full/delta/single).
	FieldScope = "scope"
	// FieldShowID is the standardized structured logging key for show identifiers.
	FieldShowID = "show_id"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)
