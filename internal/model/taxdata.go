package model

// FilingStep is the coarse position in the guided filing conversation.
type FilingStep string

const (
	StepStart          FilingStep = "START"
	StepIntakeDecision FilingStep = "INTAKE_DECISION"
	StepProfile        FilingStep = "PROFILE"
	StepIncome         FilingStep = "INCOME"
	StepDeductions     FilingStep = "DEDUCTIONS"
	StepTaxesPaid      FilingStep = "TAXES_PAID"
	StepReview         FilingStep = "REVIEW"
	StepFinalizing     FilingStep = "FINALIZING"
)

// TaxProfile holds the filer's identity details collected during intake.
type TaxProfile struct {
	LegalName      string `json:"legalName,omitempty"`
	SSNProvided    bool   `json:"ssnProvided"`
	Address        string `json:"address,omitempty"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
	Occupation     string `json:"occupation,omitempty"`
	LastYearRefund string `json:"lastYearRefund,omitempty"`
}

// ChipAction is a suggested quick-reply action surfaced to the user.
type ChipAction struct {
	Label    string `json:"label"`
	ActionID string `json:"actionId"`
	Primary  bool   `json:"primary,omitempty"`
}

// TaxSummary is the top-level live tax model shown alongside the
// conversation. The vault is embedded for in-memory use but is always
// stored separately at rest (see store.VaultStorage).
type TaxSummary struct {
	Profile           TaxProfile          `json:"profile"`
	FilingStatus      string              `json:"filingStatus,omitempty"`
	Dependents        *int                `json:"dependents"`
	DocsReceived      int                 `json:"docsReceived"`
	IncomeTotal       string              `json:"incomeTotal"`
	DeductionsTotal   string              `json:"deductionsTotal"`
	TaxesPaid         string              `json:"taxesPaid"`
	AmountDue         string              `json:"amountDue"`
	Checks            []string            `json:"checks"`
	Outcome           string              `json:"outcome"`
	Vault             []ProcessedDocument `json:"vault"`
	ConnectedAccounts []string            `json:"connectedAccounts"`
	CurrentStep       FilingStep          `json:"currentStep"`
	SuggestedChips    []ChipAction        `json:"suggestedChips"`
}

// InitialTaxSummary returns the empty summary a fresh session starts from.
func InitialTaxSummary() TaxSummary {
	return TaxSummary{
		Profile:           TaxProfile{SSNProvided: false},
		DocsReceived:      0,
		IncomeTotal:       "$0.00",
		DeductionsTotal:   "$0.00",
		TaxesPaid:         "$0.00",
		AmountDue:         "$0.00",
		Checks:            []string{"onboarding_pending"},
		Outcome:           "Calculating...",
		Vault:             []ProcessedDocument{},
		ConnectedAccounts: []string{},
		CurrentStep:       StepStart,
		SuggestedChips:    []ChipAction{},
	}
}
