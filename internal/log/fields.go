package log

// FieldComponent is the attribute every log line carries to name its
// emitting subsystem.
const FieldComponent = "component"

// Component names.
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)
