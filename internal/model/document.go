package model

import "time"

// DocumentType is the tax-form type guessed by the classifier.
type DocumentType string

const (
	DocTypeW2            DocumentType = "W-2"
	DocType1099INT       DocumentType = "1099-INT"
	DocType1099MISC      DocumentType = "1099-MISC"
	DocType1099NEC       DocumentType = "1099-NEC"
	DocType1099DIV       DocumentType = "1099-DIV"
	DocType1099B         DocumentType = "1099-B"
	DocType1098          DocumentType = "1098"
	DocTypeReceipt       DocumentType = "Receipt"
	DocTypeInvoice       DocumentType = "Invoice"
	DocTypeBankStatement DocumentType = "Bank Statement"
	DocTypeTaxDocument   DocumentType = "Tax Document"
)

// DocumentStatus is the coarse document state.
type DocumentStatus string

const (
	DocStatusProcessed DocumentStatus = "processed"
	DocStatusPending   DocumentStatus = "pending"
	DocStatusFlagged   DocumentStatus = "flagged"
)

// SourceType records where a document came from.
type SourceType string

const (
	SourceOCR      SourceType = "OCR"
	SourcePlaid    SourceType = "Plaid"
	SourceLastYear SourceType = "LastYear"
)

// ProcessingStatus tracks a document through the ingest pipeline.
type ProcessingStatus string

const (
	ProcessingUploading    ProcessingStatus = "uploading"
	ProcessingScanning     ProcessingStatus = "scanning"
	ProcessingExtracting   ProcessingStatus = "extracting"
	ProcessingProcessed    ProcessingStatus = "processed"
	ProcessingReviewNeeded ProcessingStatus = "review_needed"
	ProcessingVerified     ProcessingStatus = "verified"
	ProcessingFlagged      ProcessingStatus = "flagged"
)

// VerificationStatus is the coarse trust label derived from extraction
// confidence, or set by explicit user action.
type VerificationStatus string

const (
	VerificationAutoVerified VerificationStatus = "auto_verified"
	VerificationNeedsReview  VerificationStatus = "needs_review"
	VerificationDiscrepancy  VerificationStatus = "discrepancy"
	VerificationUserVerified VerificationStatus = "user_verified"
)

// FieldStatus is the per-field extraction quality flag.
type FieldStatus string

const (
	FieldPass FieldStatus = "PASS"
	FieldWarn FieldStatus = "WARN"
	FieldFail FieldStatus = "FAIL"
)

// StageType identifies one step of the fixed lineage pipeline.
type StageType string

const (
	StageSource       StageType = "source"
	StageExtraction   StageType = "extraction"
	StageVerification StageType = "verification"
)

// StageStatus is the state of a single lineage stage. Stages only move
// forward: pending -> active -> completed.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageActive    StageStatus = "active"
	StageCompleted StageStatus = "completed"
)

// ExtractedField is one datum pulled from a document. Fields are created
// during extraction and mutated only by user edit; they are never deleted
// independently of their owning document.
//
// JSON tags are camelCase: this is the wire shape shared with the chat
// service's addDocument payloads, so both ingest paths converge on it.
type ExtractedField struct {
	ID                 string             `json:"id"`
	Label              string             `json:"label"`
	Value              any                `json:"value"`
	Confidence         float64            `json:"confidence"`
	Status             FieldStatus        `json:"status"`
	Mapping            string             `json:"mapping,omitempty"` // tax-line mapping, e.g. "1040 Line 1a"
	Lineage            string             `json:"lineage"`
	SourceID           string             `json:"sourceId"`
	VerificationStatus VerificationStatus `json:"verificationStatus,omitempty"`
}

// LineageStage is one step of the fixed source -> extraction -> verification
// pipeline tracked per document.
type LineageStage struct {
	ID         string      `json:"id"`
	Type       StageType   `json:"type"`
	Label      string      `json:"label"`
	Timestamp  time.Time   `json:"timestamp"`
	Confidence float64     `json:"confidence,omitempty"`
	Status     StageStatus `json:"status"`
}

// ProcessedDocument is one uploaded or synced artifact in the vault.
type ProcessedDocument struct {
	ID                 string             `json:"id"`
	Type               string             `json:"type"`
	Name               string             `json:"name"`
	TaxYear            string             `json:"taxYear"`
	Timestamp          time.Time          `json:"timestamp"`
	DataPointCount     int                `json:"dataPointCount"`
	Fields             []ExtractedField   `json:"fields"`
	Confidence         float64            `json:"confidence"`
	Status             DocumentStatus     `json:"status"`
	SourceType         SourceType         `json:"sourceType"`
	Institution        string             `json:"institution,omitempty"`
	DocumentType       DocumentType       `json:"documentType,omitempty"`
	ProcessingStatus   ProcessingStatus   `json:"processingStatus,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus,omitempty"`
	LineageStages      []LineageStage     `json:"lineageStages,omitempty"`
	ThumbnailURL       string             `json:"thumbnailUrl,omitempty"`
	FileSize           string             `json:"fileSize,omitempty"`
	RawText            string             `json:"rawText,omitempty"`
}

// EffectiveType returns the richer documentType when set, else the coarse
// type label. Filters key off this value.
func (d *ProcessedDocument) EffectiveType() string {
	if d.DocumentType != "" {
		return string(d.DocumentType)
	}
	return d.Type
}

// Field returns a pointer to the field with the given id, or nil.
func (d *ProcessedDocument) Field(fieldID string) *ExtractedField {
	for i := range d.Fields {
		if d.Fields[i].ID == fieldID {
			return &d.Fields[i]
		}
	}
	return nil
}

// Stage returns a pointer to the lineage stage of the given type, or nil.
func (d *ProcessedDocument) Stage(st StageType) *LineageStage {
	for i := range d.LineageStages {
		if d.LineageStages[i].Type == st {
			return &d.LineageStages[i]
		}
	}
	return nil
}
