package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldReportID     = "report_id"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldSource       = "source"
	FieldDelivery     = "delivery"
	FieldWeekStart    = "week_start"
	FieldWeekEnd      = "week_end"
	FieldCount        = "count"
	FieldAnomalies    = "anomalies"
	FieldHealth       = "budget_health"
	FieldAmountCents  = "amount_cents"
	FieldStatusCode   = "status_code"
	FieldAttempt      = "attempt"
	FieldDuration     = "duration_ms"
	FieldContentChars = "content_chars"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentReporter = "reporter"
	ComponentSource   = "source"
	ComponentActual   = "actual"
	ComponentStorage  = "storage"
	ComponentSheets   = "sheets"
	ComponentSummary  = "summary"
	ComponentNotify   = "notify"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentImport   = "import"
)

// Operations defines standard operation names
const (
	OpLogin     = "login"
	OpFetch     = "fetch"
	OpAnalyze   = "analyze"
	OpSummarize = "summarize"
	OpDeliver   = "deliver"
	OpPublish   = "publish"
	OpConsume   = "consume"
	OpImport    = "import"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithWeek adds the reporting window
func (f LogFields) WithWeek(start, end string) LogFields {
	f[FieldWeekStart] = start
	f[FieldWeekEnd] = end
	return f
}

// WithReportID adds the report run identifier
func (f LogFields) WithReportID(id string) LogFields {
	f[FieldReportID] = id
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
