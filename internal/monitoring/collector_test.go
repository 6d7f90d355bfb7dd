package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chedr/vault-cli/internal/feedback"
	"github.com/chedr/vault-cli/internal/model"
	"github.com/chedr/vault-cli/internal/vault"
)

func snapDoc(id string, dt model.DocumentType, ps model.ProcessingStatus, vs model.VerificationStatus, conf float64) model.ProcessedDocument {
	return model.ProcessedDocument{
		ID:                 id,
		Type:               string(dt),
		Name:               id + ".pdf",
		DocumentType:       dt,
		ProcessingStatus:   ps,
		VerificationStatus: vs,
		Confidence:         conf,
	}
}

func TestCollectEmptyVault(t *testing.T) {
	c := NewCollector(vault.New(), feedback.NewRecorder())
	snap := c.Collect()

	assert.Equal(t, 0, snap.DocumentsTotal)
	assert.Zero(t, snap.AvgConfidence)
	assert.Zero(t, snap.AnomalyRate)
	assert.False(t, snap.CollectedAt.IsZero())
}

func TestCollectCountsByStatus(t *testing.T) {
	v := vault.New(
		snapDoc("d1", model.DocTypeW2, model.ProcessingVerified, model.VerificationAutoVerified, 0.95),
		snapDoc("d2", model.DocType1099INT, model.ProcessingReviewNeeded, model.VerificationNeedsReview, 0.65),
		snapDoc("d3", model.DocTypeReceipt, model.ProcessingExtracting, "", 0.85),
		snapDoc("d4", model.DocTypeW2, model.ProcessingProcessed, model.VerificationUserVerified, 0.75),
	)

	snap := NewCollector(v, nil).Collect()

	assert.Equal(t, 4, snap.DocumentsTotal)
	assert.Equal(t, 3, snap.TaxDocuments)
	assert.Equal(t, 1, snap.Receipts)

	assert.Equal(t, 1, snap.Extracting)
	assert.Equal(t, 1, snap.Processed)
	assert.Equal(t, 1, snap.ReviewNeeded)
	assert.Equal(t, 1, snap.Verified)

	assert.Equal(t, 1, snap.AutoVerified)
	assert.Equal(t, 1, snap.NeedsReview)
	assert.Equal(t, 1, snap.UserVerified)

	assert.InDelta(t, 0.8, snap.AvgConfidence, 0.001)
	assert.Equal(t, 0, snap.Corrections)
}

func TestCollectAnomalyRate(t *testing.T) {
	doc := snapDoc("d1", model.DocTypeW2, model.ProcessingVerified, model.VerificationAutoVerified, 0.95)
	doc.Fields = []model.ExtractedField{
		{ID: "d1:wages", Label: "Wages", Value: "$52,000.00"},
		{ID: "d1:amount", Label: "Amount", Value: "$2,000,000.00"},
		{ID: "d1:pay_date", Label: "Pay Date", Value: "01/15/2099"},
		{ID: "d1:employer", Label: "Employer", Value: "Acme Corp"},
	}

	snap := NewCollector(vault.New(doc), nil).Collect()

	assert.Equal(t, 4, snap.FieldsTotal)
	assert.Equal(t, 2, snap.AnomalousFields)
	assert.InDelta(t, 0.5, snap.AnomalyRate, 0.001)
}

func TestCollectCorrections(t *testing.T) {
	rec := feedback.NewRecorder()
	rec.Record("d1:wages", "$52,000.00", "$53,000.00")
	rec.Record("d1:wages", "$53,000.00", "$54,000.00")
	rec.Record("d2:amount", "$10.00", "$12.00")

	snap := NewCollector(vault.New(), rec).Collect()
	assert.Equal(t, 3, snap.Corrections)
}
