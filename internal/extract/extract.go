// Package extract simulates OCR extraction latency: documents enter the
// vault with an active extraction stage, and completion is applied later as
// one atomic patch per stage transition.
package extract

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/chedr/vault-cli/internal/forms"
	"github.com/chedr/vault-cli/internal/model"
	"github.com/chedr/vault-cli/internal/tasks"
	"github.com/chedr/vault-cli/internal/vault"
)

// Field confidence below warnThreshold marks the field WARN; below
// failThreshold, FAIL. A field may only reach PASS afterwards through an
// explicit user edit.
const (
	warnThreshold = 0.8
	failThreshold = 0.5
)

// Extractor drives the simulated extraction pipeline for vault documents.
type Extractor struct {
	vault       *vault.Store
	sched       *tasks.Scheduler
	delay       time.Duration
	verifyDelay time.Duration
}

// New creates an Extractor applying extraction results after delay and
// completing verification verifyDelay later.
func New(v *vault.Store, sched *tasks.Scheduler, delay, verifyDelay time.Duration) *Extractor {
	return &Extractor{vault: v, sched: sched, delay: delay, verifyDelay: verifyDelay}
}

// Start schedules the two-step completion for a freshly added document:
// extraction first, then verification. The verification step is only
// scheduled once the extraction step has actually run, so per-document
// stage order is always monotonic even when many documents are in flight.
// The returned channel closes when verification has been applied, or early
// if the scheduler shuts down mid-flight.
func (e *Extractor) Start(doc model.ProcessedDocument) <-chan struct{} {
	done := make(chan struct{})

	first := e.sched.After(e.delay, func() {
		e.completeExtraction(doc)
	})

	go func() {
		defer close(done)
		<-first.Done()
		if !first.Fired() {
			return // cancelled at teardown
		}
		second := e.sched.After(e.verifyDelay, func() {
			e.completeVerification(doc.ID)
		})
		<-second.Done()
	}()

	return done
}

// completeExtraction synthesizes fields for the document type and applies
// the extraction-complete patch: fields, processed status, lineage
// extraction->completed and verification->active.
func (e *Extractor) completeExtraction(doc model.ProcessedDocument) {
	fields := SimulateFields(doc)

	current, ok := e.vault.Get(doc.ID)
	if !ok {
		zap.L().Debug("extraction target gone", zap.String("doc_id", doc.ID))
		return
	}

	stages := advanceStages(current.LineageStages, model.StageExtraction, model.StageVerification)
	e.vault.Update(doc.ID, model.DocumentPatch{
		Fields:           fields,
		DataPointCount:   model.Ptr(len(fields)),
		Status:           model.Ptr(model.DocStatusProcessed),
		ProcessingStatus: model.Ptr(model.ProcessingProcessed),
		LineageStages:    stages,
	})
}

// completeVerification finishes the verification stage and settles the
// processing status based on the document's verification label.
func (e *Extractor) completeVerification(docID string) {
	current, ok := e.vault.Get(docID)
	if !ok {
		return
	}

	ps := model.ProcessingReviewNeeded
	if current.VerificationStatus == model.VerificationAutoVerified {
		ps = model.ProcessingVerified
	}

	stages := advanceStages(current.LineageStages, model.StageVerification, "")
	e.vault.Update(docID, model.DocumentPatch{
		ProcessingStatus: model.Ptr(ps),
		LineageStages:    stages,
	})
}

// advanceStages returns a copy of stages with the named stage completed and
// the next one (if any) activated. Stages never regress: completed stages
// are left alone.
func advanceStages(stages []model.LineageStage, complete, activate model.StageType) []model.LineageStage {
	now := time.Now().UTC()
	out := make([]model.LineageStage, len(stages))
	copy(out, stages)
	for i := range out {
		switch out[i].Type {
		case complete:
			if out[i].Status != model.StageCompleted {
				out[i].Status = model.StageCompleted
				out[i].Timestamp = now
			}
		case activate:
			if out[i].Status == model.StagePending {
				out[i].Status = model.StageActive
				out[i].Timestamp = now
			}
		}
	}
	return out
}

// SimulateFields synthesizes extracted fields from the form definition for
// the document's type. Values and confidences are deterministic per
// document id so repeated runs (and tests) see stable output.
func SimulateFields(doc model.ProcessedDocument) []model.ExtractedField {
	def := forms.For(doc.DocumentType)
	rng := rand.New(rand.NewPCG(seed(doc.ID), 0))

	fields := make([]model.ExtractedField, 0, len(def.Fields))
	for _, fd := range def.Fields {
		confidence := 0.55 + rng.Float64()*0.44
		fields = append(fields, model.ExtractedField{
			ID:         doc.ID + ":" + fd.Key,
			Label:      fd.Label,
			Value:      simulateValue(fd, rng),
			Confidence: confidence,
			Status:     fieldStatus(confidence),
			Mapping:    fd.Key,
			Lineage:    fmt.Sprintf("Extracted from %s", doc.Name),
			SourceID:   doc.ID,
			VerificationStatus: func() model.VerificationStatus {
				if confidence >= 0.9 {
					return model.VerificationAutoVerified
				}
				return model.VerificationNeedsReview
			}(),
		})
	}
	return fields
}

func fieldStatus(confidence float64) model.FieldStatus {
	switch {
	case confidence < failThreshold:
		return model.FieldFail
	case confidence < warnThreshold:
		return model.FieldWarn
	default:
		return model.FieldPass
	}
}

func simulateValue(fd forms.FieldDefinition, rng *rand.Rand) any {
	switch fd.Type {
	case forms.TypeNumber:
		return fmt.Sprintf("$%.2f", rng.Float64()*90000+1000)
	case forms.TypeDate:
		month := rng.IntN(12) + 1
		day := rng.IntN(28) + 1
		return fmt.Sprintf("%d-%02d-%02d", time.Now().Year(), month, day)
	case forms.TypeBoolean:
		return rng.IntN(2) == 1
	default:
		return fmt.Sprintf("Sample %s", fd.Key)
	}
}

func seed(id string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return h.Sum64()
}
