package models

// StatementRow is one labeled row of a financial statement. Values are kept
// loosely typed because the upstream documents mix strings and numbers.
type StatementRow map[string]any

// CompanyData is the reference document stored per symbol.
// Every field is optional; absent fields are omitted from responses.
type CompanyData struct {
	IncomeStatement []StatementRow `json:"income_statement,omitempty" bson:"income_statement,omitempty"`
	BalanceSheet    []StatementRow `json:"balance_sheet,omitempty"    bson:"balance_sheet,omitempty"`
	CashFlow        []StatementRow `json:"cash_flow,omitempty"        bson:"cash_flow,omitempty"`
	Pros            []string       `json:"pros,omitempty"             bson:"pros,omitempty"`
	Cons            []string       `json:"cons,omitempty"             bson:"cons,omitempty"`
	About           string         `json:"about,omitempty"            bson:"about,omitempty"`
}

// Company fields servable through the field-projection endpoints.
const (
	FieldIncomeStatement = "income_statement"
	FieldBalanceSheet    = "balance_sheet"
	FieldCashFlow        = "cash_flow"
	FieldPros            = "pros"
	FieldCons            = "cons"
	FieldAbout           = "about"
)
