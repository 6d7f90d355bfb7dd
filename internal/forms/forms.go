// Package forms defines the extraction schemas for supported tax forms:
// the fields an extractor (local simulation or the external chat model) is
// expected to pull from each document type.
package forms

import (
	"strings"

	"github.com/chedr/vault-cli/internal/model"
)

// FieldType is the expected value type of a form field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeDate    FieldType = "date"
	TypeBoolean FieldType = "boolean"
)

// FieldDefinition describes one expected field on a form.
type FieldDefinition struct {
	Key         string    `json:"key"`
	Label       string    `json:"label"` // the text printed on the form
	Description string    `json:"description,omitempty"`
	Type        FieldType `json:"type"`
}

// FormDefinition is the extraction schema for one form type.
type FormDefinition struct {
	FormType string            `json:"formType"`
	Fields   []FieldDefinition `json:"fields"`
}

var w2Model = FormDefinition{
	FormType: "W-2",
	Fields: []FieldDefinition{
		{Key: "employerName", Label: "Employer's name", Type: TypeString},
		{Key: "employerId", Label: "Employer identification number (EIN)", Type: TypeString},
		{Key: "employeeName", Label: "Employee's name", Type: TypeString},
		{Key: "employeeSsn", Label: "Employee's social security number", Type: TypeString},
		{Key: "wages", Label: "Box 1 Wages, tips, other compensation", Type: TypeNumber},
		{Key: "fedTaxWithheld", Label: "Box 2 Federal income tax withheld", Type: TypeNumber},
		{Key: "ssWages", Label: "Box 3 Social security wages", Type: TypeNumber},
		{Key: "ssTaxWithheld", Label: "Box 4 Social security tax withheld", Type: TypeNumber},
		{Key: "medicareWages", Label: "Box 5 Medicare wages and tips", Type: TypeNumber},
		{Key: "medicareTaxWithheld", Label: "Box 6 Medicare tax withheld", Type: TypeNumber},
		{Key: "ssTips", Label: "Box 7 Social security tips", Type: TypeNumber},
		{Key: "allocatedTips", Label: "Box 8 Allocated tips", Type: TypeNumber},
		{Key: "dependentCare", Label: "Box 10 Dependent care benefits", Type: TypeNumber},
		{Key: "nonqualifiedPlans", Label: "Box 11 Nonqualified plans", Type: TypeNumber},
		{Key: "box12", Label: "Box 12 Codes (List all)", Type: TypeString},
		{Key: "state", Label: "Box 15 State", Type: TypeString},
		{Key: "stateWages", Label: "Box 16 State wages, tips, etc.", Type: TypeNumber},
		{Key: "stateTax", Label: "Box 17 State income tax", Type: TypeNumber},
		{Key: "localWages", Label: "Box 18 Local wages, tips, etc.", Type: TypeNumber},
		{Key: "localTax", Label: "Box 19 Local income tax", Type: TypeNumber},
	},
}

var form1099IntModel = FormDefinition{
	FormType: "1099-INT",
	Fields: []FieldDefinition{
		{Key: "payerName", Label: "Payer's name", Type: TypeString},
		{Key: "payerTin", Label: "Payer's TIN", Type: TypeString},
		{Key: "recipientName", Label: "Recipient's name", Type: TypeString},
		{Key: "interestIncome", Label: "Box 1 Interest income", Type: TypeNumber},
		{Key: "earlyWithdrawalPenalty", Label: "Box 2 Early withdrawal penalty", Type: TypeNumber},
		{Key: "usSavingsBonds", Label: "Box 3 Interest on U.S. Savings Bonds", Type: TypeNumber},
		{Key: "fedTaxWithheld", Label: "Box 4 Federal income tax withheld", Type: TypeNumber},
	},
}

var form1099NecModel = FormDefinition{
	FormType: "1099-NEC",
	Fields: []FieldDefinition{
		{Key: "payerName", Label: "Payer's name", Type: TypeString},
		{Key: "payerTin", Label: "Payer's TIN", Type: TypeString},
		{Key: "recipientName", Label: "Recipient's name", Type: TypeString},
		{Key: "nonemployeeComp", Label: "Box 1 Nonemployee compensation", Type: TypeNumber},
		{Key: "fedTaxWithheld", Label: "Box 4 Federal income tax withheld", Type: TypeNumber},
		{Key: "stateTaxWithheld", Label: "Box 5 State tax withheld", Type: TypeNumber},
	},
}

var form1040Model = FormDefinition{
	FormType: "1040",
	Fields: []FieldDefinition{
		{Key: "filingStatus", Label: "Filing Status", Type: TypeString},
		{Key: "firstName", Label: "Your first name", Type: TypeString},
		{Key: "lastName", Label: "Your last name", Type: TypeString},
		{Key: "ssn", Label: "Your social security number", Type: TypeString},
		{Key: "spouseFirstName", Label: "Spouse's first name", Type: TypeString},
		{Key: "spouseLastName", Label: "Spouse's last name", Type: TypeString},
		{Key: "totalIncome", Label: "Line 9 Total Income", Type: TypeNumber},
		{Key: "agi", Label: "Line 11 Adjusted Gross Income", Type: TypeNumber},
		{Key: "taxableIncome", Label: "Line 15 Taxable Income", Type: TypeNumber},
		{Key: "totalTax", Label: "Line 24 Total Tax", Type: TypeNumber},
		{Key: "totalPayments", Label: "Line 33 Total Payments", Type: TypeNumber},
		{Key: "overpaid", Label: "Line 34 Amount Overpaid", Type: TypeNumber},
		{Key: "amountOwed", Label: "Line 37 Amount You Owe", Type: TypeNumber},
	},
}

// genericModel covers document types without a dedicated schema so the
// extractor always has something to work from.
var genericModel = FormDefinition{
	FormType: "Generic",
	Fields: []FieldDefinition{
		{Key: "issuer", Label: "Issuer", Type: TypeString},
		{Key: "documentDate", Label: "Document date", Type: TypeDate},
		{Key: "totalAmount", Label: "Total amount", Type: TypeNumber},
	},
}

// All returns the dedicated form definitions in declaration order.
func All() []FormDefinition {
	return []FormDefinition{w2Model, form1099IntModel, form1099NecModel, form1040Model}
}

// For returns the extraction schema for a document type. 1099 variants
// without a dedicated model fall back to the 1099-INT shape; everything
// else unrecognized gets the generic schema.
func For(dt model.DocumentType) FormDefinition {
	switch dt {
	case model.DocTypeW2:
		return w2Model
	case model.DocType1099INT, model.DocType1099DIV, model.DocType1099B:
		return form1099IntModel
	case model.DocType1099NEC, model.DocType1099MISC:
		return form1099NecModel
	case model.DocTypeTaxDocument, model.DocType1098:
		return form1040Model
	default:
		return genericModel
	}
}

// ExtractionPrompt renders the schema text handed to the external chat
// model so its addDocument payloads line up with these field keys.
func ExtractionPrompt() string {
	var b strings.Builder
	b.WriteString("EXTRACT THE FOLLOWING FIELDS EXACTLY. Return them in the 'fields' array of 'addDocument'.\n\n")
	for _, m := range All() {
		b.WriteString("For " + m.FormType + ":\n")
		for _, f := range m.Fields {
			b.WriteString("- " + f.Label + " (Key: " + f.Key + ")\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
