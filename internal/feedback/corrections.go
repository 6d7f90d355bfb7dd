package feedback

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Correction is one recorded user edit.
type Correction struct {
	FieldID    string    `json:"fieldId"`
	OldValue   any       `json:"oldValue"`
	NewValue   any       `json:"newValue"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Recorder counts user corrections per field id. It is a stand-in for a
// future learning mechanism: the counters are observable through the
// status/metrics surfaces but are deliberately not fed back into
// classification. Construct one per process and inject it; there is no
// package-level instance.
type Recorder struct {
	mu     sync.Mutex
	counts map[string]int
	last   map[string]Correction
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		counts: make(map[string]int),
		last:   make(map[string]Correction),
	}
}

// Record increments the correction counter for the field.
func (r *Recorder) Record(fieldID string, oldValue, newValue any) {
	r.mu.Lock()
	r.counts[fieldID]++
	n := r.counts[fieldID]
	r.last[fieldID] = Correction{
		FieldID:    fieldID,
		OldValue:   oldValue,
		NewValue:   newValue,
		RecordedAt: time.Now().UTC(),
	}
	r.mu.Unlock()

	zap.L().Debug("correction recorded",
		zap.String("field_id", fieldID),
		zap.Int("count", n),
	)
}

// Count returns the number of corrections recorded for the field.
func (r *Recorder) Count(fieldID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[fieldID]
}

// Counts returns a copy of every per-field counter.
func (r *Recorder) Counts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Last returns the most recent correction for the field, if any.
func (r *Recorder) Last(fieldID string) (Correction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.last[fieldID]
	return c, ok
}

// Total returns the total number of corrections across all fields.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, v := range r.counts {
		total += v
	}
	return total
}
