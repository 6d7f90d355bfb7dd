package model

// DocumentPatch is a partial update to a ProcessedDocument. Nil fields are
// left untouched; slice-valued fields replace wholesale when non-nil. There
// is no append semantics: callers wanting to append read-modify-write.
type DocumentPatch struct {
	Type               *string             `json:"type,omitempty"`
	Name               *string             `json:"name,omitempty"`
	TaxYear            *string             `json:"taxYear,omitempty"`
	DataPointCount     *int                `json:"dataPointCount,omitempty"`
	Fields             []ExtractedField    `json:"fields,omitempty"`
	Confidence         *float64            `json:"confidence,omitempty"`
	Status             *DocumentStatus     `json:"status,omitempty"`
	Institution        *string             `json:"institution,omitempty"`
	DocumentType       *DocumentType       `json:"documentType,omitempty"`
	ProcessingStatus   *ProcessingStatus   `json:"processingStatus,omitempty"`
	VerificationStatus *VerificationStatus `json:"verificationStatus,omitempty"`
	LineageStages      []LineageStage      `json:"lineageStages,omitempty"`
	ThumbnailURL       *string             `json:"thumbnailUrl,omitempty"`
	RawText            *string             `json:"rawText,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p DocumentPatch) IsZero() bool {
	return p.Type == nil && p.Name == nil && p.TaxYear == nil &&
		p.DataPointCount == nil && p.Fields == nil && p.Confidence == nil &&
		p.Status == nil && p.Institution == nil && p.DocumentType == nil &&
		p.ProcessingStatus == nil && p.VerificationStatus == nil &&
		p.LineageStages == nil && p.ThumbnailURL == nil && p.RawText == nil
}

// Apply merges the patch into the document. An empty patch leaves the
// document unchanged.
func (d *ProcessedDocument) Apply(p DocumentPatch) {
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.TaxYear != nil {
		d.TaxYear = *p.TaxYear
	}
	if p.DataPointCount != nil {
		d.DataPointCount = *p.DataPointCount
	}
	if p.Fields != nil {
		d.Fields = p.Fields
	}
	if p.Confidence != nil {
		d.Confidence = *p.Confidence
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.Institution != nil {
		d.Institution = *p.Institution
	}
	if p.DocumentType != nil {
		d.DocumentType = *p.DocumentType
	}
	if p.ProcessingStatus != nil {
		d.ProcessingStatus = *p.ProcessingStatus
	}
	if p.VerificationStatus != nil {
		d.VerificationStatus = *p.VerificationStatus
	}
	if p.LineageStages != nil {
		d.LineageStages = p.LineageStages
	}
	if p.ThumbnailURL != nil {
		d.ThumbnailURL = *p.ThumbnailURL
	}
	if p.RawText != nil {
		d.RawText = *p.RawText
	}
}

// Ptr returns a pointer to v. Convenience for building patches.
func Ptr[T any](v T) *T {
	return &v
}
