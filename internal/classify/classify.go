// Package classify guesses a document's tax-form type from its filename and
// derives verification status from extraction confidence.
package classify

import (
	"regexp"
	"strings"

	"github.com/chedr/vault-cli/internal/model"
)

// Result is a classification outcome.
type Result struct {
	DocumentType model.DocumentType `json:"documentType"`
	Confidence   float64            `json:"confidence"`
}

type rule struct {
	pattern    *regexp.Regexp
	docType    model.DocumentType
	confidence float64
}

// Rule order matters: specific forms (1099-INT) must precede generic
// fallbacks (bare 1099, bare "tax") so they are not swallowed.
var rules = []rule{
	{regexp.MustCompile(`w-?2`), model.DocTypeW2, 0.95},
	{regexp.MustCompile(`1099-?int`), model.DocType1099INT, 0.95},
	{regexp.MustCompile(`1099-?misc`), model.DocType1099MISC, 0.95},
	{regexp.MustCompile(`1099-?nec`), model.DocType1099NEC, 0.95},
	{regexp.MustCompile(`1099-?div`), model.DocType1099DIV, 0.95},
	{regexp.MustCompile(`1099-?b`), model.DocType1099B, 0.95},
	{regexp.MustCompile(`1099`), model.DocType1099MISC, 0.7},
	{regexp.MustCompile(`1098`), model.DocType1098, 0.95},
	{regexp.MustCompile(`receipt|rcpt`), model.DocTypeReceipt, 0.85},
	{regexp.MustCompile(`invoice|inv`), model.DocTypeInvoice, 0.85},
	{regexp.MustCompile(`bank\s*statement|statement`), model.DocTypeBankStatement, 0.8},
	{regexp.MustCompile(`tax`), model.DocTypeTaxDocument, 0.6},
}

// FallbackConfidence is returned when no rule matches. It is deliberately
// low so that unrecognized documents route to needs_review downstream.
const FallbackConfidence = 0.3

// Classify evaluates the rule table against the lowercased filename and
// returns the first match. Absence of a match is the designed fallback,
// not an error.
func Classify(filename string) Result {
	name := strings.ToLower(filename)
	for _, r := range rules {
		if r.pattern.MatchString(name) {
			return Result{DocumentType: r.docType, Confidence: r.confidence}
		}
	}
	return Result{DocumentType: model.DocTypeTaxDocument, Confidence: FallbackConfidence}
}

// VerificationStatusFor maps extraction confidence to a trust label.
// Breakpoints are fixed at 0.9 and 0.6.
func VerificationStatusFor(confidence float64) model.VerificationStatus {
	switch {
	case confidence >= 0.9:
		return model.VerificationAutoVerified
	case confidence >= 0.6:
		return model.VerificationNeedsReview
	default:
		return model.VerificationDiscrepancy
	}
}

var taxTypes = map[model.DocumentType]bool{
	model.DocTypeW2:          true,
	model.DocType1099INT:     true,
	model.DocType1099MISC:    true,
	model.DocType1099NEC:     true,
	model.DocType1099DIV:     true,
	model.DocType1099B:       true,
	model.DocType1098:        true,
	model.DocTypeTaxDocument: true,
}

var receiptTypes = map[model.DocumentType]bool{
	model.DocTypeReceipt:       true,
	model.DocTypeInvoice:       true,
	model.DocTypeBankStatement: true,
}

// IsTaxDocument reports whether the type belongs to the tax-form group.
func IsTaxDocument(dt model.DocumentType) bool {
	return taxTypes[dt]
}

// IsReceiptDocument reports whether the type belongs to the receipt group.
func IsReceiptDocument(dt model.DocumentType) bool {
	return receiptTypes[dt]
}
