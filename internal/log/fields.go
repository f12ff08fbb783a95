package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldEntryID     = "entry_id"
	FieldStatementID = "statement_id"
	FieldCardID      = "card_id"
	FieldAccountID   = "account_id"
	FieldDate        = "date"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldAmountCents = "amount_cents"
)

// Components defines standard component names
const (
	ComponentApp = "app"
	ComponentCLI = "cli"
)
