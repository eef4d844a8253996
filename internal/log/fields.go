package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldStep        = "step"
	FieldGroup       = "group"
	FieldPeople      = "people"
	FieldExpenses    = "expenses"
	FieldExpenseName = "expense_name"
	FieldAmountMinor = "amount_minor"
	FieldShareCount  = "share_count"
	FieldTokenLength = "token_length"
	FieldDecodeStage = "decode_stage"
	FieldReadOnly    = "read_only"
	FieldPath        = "path"
	FieldCurrency    = "currency"
)

// Components defines standard component names
const (
	ComponentApp         = "splitbill"
	ComponentCLI         = "cli"
	ComponentConfig      = "config"
	ComponentWizard      = "wizard"
	ComponentSplit       = "split"
	ComponentShare       = "share"
	ComponentSessionFile = "sessionfile"
	ComponentUI          = "ui"
)

// Operations defines standard operation names
const (
	OpStartup   = "startup"
	OpValidate  = "validate"
	OpParse     = "parse"
	OpAddItem   = "add_expense"
	OpCalculate = "calculate"
	OpEncode    = "encode"
	OpDecode    = "decode"
	OpRestore   = "restore"
	OpCopy      = "copy"
	OpLoad      = "load"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDecode        = "decode_error"
	ErrorTypeReference     = "reference_error"
	ErrorTypeIO            = "io_error"
	ErrorTypeInternal      = "internal_error"
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

// WithErrorType adds the error category, one of the ErrorType constants
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithSession adds the size of a session
func (f LogFields) WithSession(group string, people, expenses int) LogFields {
	f[FieldGroup] = group
	f[FieldPeople] = people
	f[FieldExpenses] = expenses
	return f
}

// WithPath adds the path of a file being read
func (f LogFields) WithPath(path string) LogFields {
	f[FieldPath] = path
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(name string, amountMinor int64, shareCount int) LogFields {
	f[FieldExpenseName] = name
	f[FieldAmountMinor] = amountMinor
	f[FieldShareCount] = shareCount
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
