package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatchIsZero(t *testing.T) {
	assert.True(t, DocumentPatch{}.IsZero())
	assert.False(t, DocumentPatch{Name: Ptr("renamed.pdf")}.IsZero())
	assert.False(t, DocumentPatch{Fields: []ExtractedField{}}.IsZero(),
		"an empty non-nil slice still replaces")
}

func TestApplyPartial(t *testing.T) {
	d := ProcessedDocument{
		ID:               "doc-1",
		Name:             "scan.pdf",
		TaxYear:          "2025",
		Confidence:       0.3,
		Status:           DocStatusPending,
		ProcessingStatus: ProcessingExtracting,
		Fields:           []ExtractedField{{ID: "f1"}},
	}

	d.Apply(DocumentPatch{
		Confidence:       Ptr(0.95),
		Status:           Ptr(DocStatusProcessed),
		ProcessingStatus: Ptr(ProcessingProcessed),
	})

	assert.Equal(t, 0.95, d.Confidence)
	assert.Equal(t, DocStatusProcessed, d.Status)
	assert.Equal(t, ProcessingProcessed, d.ProcessingStatus)

	// Untouched fields survive.
	assert.Equal(t, "scan.pdf", d.Name)
	assert.Equal(t, "2025", d.TaxYear)
	assert.Len(t, d.Fields, 1)
}

func TestApplyEmptyPatchIsIdentity(t *testing.T) {
	d := ProcessedDocument{
		ID:         "doc-1",
		Name:       "scan.pdf",
		Confidence: 0.85,
		Fields:     []ExtractedField{{ID: "f1", Value: "x"}},
	}
	before := d

	d.Apply(DocumentPatch{})

	assert.Equal(t, before.ID, d.ID)
	assert.Equal(t, before.Name, d.Name)
	assert.Equal(t, before.Confidence, d.Confidence)
	assert.Equal(t, before.Fields, d.Fields)
}

func TestApplySliceReplacesWholesale(t *testing.T) {
	d := ProcessedDocument{
		Fields: []ExtractedField{{ID: "f1"}, {ID: "f2"}},
	}

	d.Apply(DocumentPatch{Fields: []ExtractedField{{ID: "f3"}}})

	assert.Len(t, d.Fields, 1)
	assert.Equal(t, "f3", d.Fields[0].ID)

	// Nil slice in the patch leaves the existing slice alone.
	d.Apply(DocumentPatch{Name: Ptr("renamed.pdf")})
	assert.Len(t, d.Fields, 1)
}
