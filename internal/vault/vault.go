// Package vault holds the per-session document collection: an
// insertion-ordered store with filtering, selection, and patch updates.
package vault

import (
	"strings"
	"sync"

	"github.com/chedr/vault-cli/internal/classify"
	"github.com/chedr/vault-cli/internal/model"
)

// Filter selects a derived view of the collection.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterTax     Filter = "tax"
	FilterReceipt Filter = "receipt"
)

// ValidFilter reports whether s names a known filter.
func ValidFilter(s string) bool {
	switch Filter(s) {
	case FilterAll, FilterTax, FilterReceipt:
		return true
	}
	return false
}

// Store is the session source of truth for processed documents.
// Most-recent-first ordering is a product decision: Add prepends, and all
// listing operations preserve that order. All methods are safe for
// concurrent use.
type Store struct {
	mu       sync.Mutex
	order    []string // document ids, most recent first
	docs     map[string]*model.ProcessedDocument
	filter   Filter
	selected string // id, empty = none
}

// New creates a Store, optionally seeded with previously persisted
// documents (kept in the given order).
func New(initial ...model.ProcessedDocument) *Store {
	s := &Store{
		docs:   make(map[string]*model.ProcessedDocument, len(initial)),
		filter: FilterAll,
	}
	for i := range initial {
		doc := initial[i]
		if _, dup := s.docs[doc.ID]; dup {
			continue
		}
		s.order = append(s.order, doc.ID)
		s.docs[doc.ID] = &doc
	}
	return s
}

// Add prepends the document to the collection. A document with a duplicate
// id replaces the existing record in place.
func (s *Store) Add(doc model.ProcessedDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[doc.ID]; ok {
		s.docs[doc.ID] = &doc
		return
	}
	s.order = append([]string{doc.ID}, s.order...)
	s.docs[doc.ID] = &doc
}

// Update merges the patch into the matching document. Unknown ids are a
// silent no-op; the return value reports whether a document was touched.
func (s *Store) Update(id string, patch model.DocumentPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return false
	}
	doc.Apply(patch)
	return true
}

// Remove deletes the matching document and clears the selection if it
// pointed at it. Unknown ids are a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// Select sets the current selection; empty clears it. Existence is not
// checked: callers are expected to pass a known id, and a dangling
// selection simply resolves to no document.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// SetFilter replaces the active filter.
func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Filter returns the active filter.
func (s *Store) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Len returns the number of documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Get returns a copy of the document with the given id.
func (s *Store) Get(id string) (model.ProcessedDocument, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return model.ProcessedDocument{}, false
	}
	return *doc, true
}

// Documents returns copies of all documents, most recent first.
func (s *Store) Documents() []model.ProcessedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(FilterAll)
}

// Filtered returns copies of the documents matching the active filter,
// most recent first. Filtering is a pure view and never mutates the
// collection.
func (s *Store) Filtered() []model.ProcessedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(s.filter)
}

// Selected returns a copy of the selected document, or nil when nothing is
// selected or the selection dangles.
func (s *Store) Selected() *model.ProcessedDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == "" {
		return nil
	}
	doc, ok := s.docs[s.selected]
	if !ok {
		return nil
	}
	cp := *doc
	return &cp
}

// EditField replaces a field's value from an explicit user edit. The field
// is promoted to PASS and marked user_verified; this is the only path that
// promotes a field. Returns the previous value and whether the edit landed.
func (s *Store) EditField(docID, fieldID string, newValue any) (old any, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, found := s.docs[docID]
	if !found {
		return nil, false
	}
	f := doc.Field(fieldID)
	if f == nil {
		return nil, false
	}
	old = f.Value
	f.Value = newValue
	f.Status = model.FieldPass
	f.VerificationStatus = model.VerificationUserVerified
	return old, true
}

func (s *Store) snapshot(f Filter) []model.ProcessedDocument {
	out := make([]model.ProcessedDocument, 0, len(s.order))
	for _, id := range s.order {
		doc := s.docs[id]
		if matchesFilter(doc, f) {
			out = append(out, *doc)
		}
	}
	return out
}

func matchesFilter(doc *model.ProcessedDocument, f Filter) bool {
	switch f {
	case FilterTax:
		dt := doc.EffectiveType()
		return strings.Contains(dt, "1099") ||
			strings.Contains(dt, "W-2") ||
			strings.Contains(dt, "1098") ||
			dt == string(model.DocTypeTaxDocument)
	case FilterReceipt:
		return classify.IsReceiptDocument(model.DocumentType(doc.EffectiveType()))
	default:
		return true
	}
}
