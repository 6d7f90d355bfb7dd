package monitoring

import (
	"time"

	"github.com/chedr/vault-cli/internal/classify"
	"github.com/chedr/vault-cli/internal/feedback"
	"github.com/chedr/vault-cli/internal/model"
	"github.com/chedr/vault-cli/internal/vault"
)

// MetricsSnapshot holds a point-in-time view of vault health.
type MetricsSnapshot struct {
	// Document counts.
	DocumentsTotal int `json:"documents_total"`
	TaxDocuments   int `json:"tax_documents"`
	Receipts       int `json:"receipts"`

	// Pipeline state.
	Extracting   int `json:"extracting"`
	Processed    int `json:"processed"`
	ReviewNeeded int `json:"review_needed"`
	Verified     int `json:"verified"`

	// Verification labels.
	AutoVerified int `json:"auto_verified"`
	NeedsReview  int `json:"needs_review"`
	UserVerified int `json:"user_verified"`

	// Quality signals.
	AvgConfidence   float64 `json:"avg_confidence"`
	FieldsTotal     int     `json:"fields_total"`
	AnomalousFields int     `json:"anomalous_fields"`
	AnomalyRate     float64 `json:"anomaly_rate"`
	Corrections     int     `json:"corrections"`

	CollectedAt time.Time `json:"collected_at"`
}

// Collector gathers metrics from the vault and the correction recorder.
type Collector struct {
	vault    *vault.Store
	recorder *feedback.Recorder
}

// NewCollector creates a new metrics collector.
func NewCollector(v *vault.Store, rec *feedback.Recorder) *Collector {
	return &Collector{vault: v, recorder: rec}
}

// Collect gathers a snapshot of vault metrics.
func (c *Collector) Collect() *MetricsSnapshot {
	snap := &MetricsSnapshot{
		CollectedAt: time.Now().UTC(),
	}

	docs := c.vault.Documents()
	snap.DocumentsTotal = len(docs)

	var confidenceSum float64
	for i := range docs {
		d := &docs[i]
		dt := model.DocumentType(d.EffectiveType())
		if classify.IsTaxDocument(dt) {
			snap.TaxDocuments++
		} else if classify.IsReceiptDocument(dt) {
			snap.Receipts++
		}

		switch d.ProcessingStatus {
		case model.ProcessingExtracting:
			snap.Extracting++
		case model.ProcessingProcessed:
			snap.Processed++
		case model.ProcessingReviewNeeded:
			snap.ReviewNeeded++
		case model.ProcessingVerified:
			snap.Verified++
		}

		switch d.VerificationStatus {
		case model.VerificationAutoVerified:
			snap.AutoVerified++
		case model.VerificationNeedsReview:
			snap.NeedsReview++
		case model.VerificationUserVerified:
			snap.UserVerified++
		}

		confidenceSum += d.Confidence
		snap.FieldsTotal += len(d.Fields)
		snap.AnomalousFields += len(feedback.DetectAnomalies(d.Fields))
	}

	if snap.DocumentsTotal > 0 {
		snap.AvgConfidence = confidenceSum / float64(snap.DocumentsTotal)
	}
	if snap.FieldsTotal > 0 {
		snap.AnomalyRate = float64(snap.AnomalousFields) / float64(snap.FieldsTotal)
	}
	if c.recorder != nil {
		snap.Corrections = c.recorder.Total()
	}

	return snap
}
