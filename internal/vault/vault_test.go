package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chedr/vault-cli/internal/model"
)

func doc(id string, docType model.DocumentType) model.ProcessedDocument {
	return model.ProcessedDocument{
		ID:           id,
		Type:         string(docType),
		DocumentType: docType,
		Name:         id + ".pdf",
		Status:       model.DocStatusPending,
	}
}

func TestStore_AddPrepends(t *testing.T) {
	s := New()
	s.Add(doc("a", model.DocTypeW2))
	s.Add(doc("b", model.DocTypeReceipt))
	s.Add(doc("c", model.DocType1098))

	got := s.Documents()
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "a", got[2].ID)
}

func TestStore_AddDuplicateReplaces(t *testing.T) {
	s := New()
	s.Add(doc("a", model.DocTypeW2))
	d := doc("a", model.DocTypeW2)
	d.Name = "renamed.pdf"
	s.Add(d)

	assert.Equal(t, 1, s.Len())
	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "renamed.pdf", got.Name)
}

func TestStore_UpdateMergesPatch(t *testing.T) {
	s := New()
	s.Add(doc("a", model.DocTypeW2))

	ok := s.Update("a", model.DocumentPatch{
		Status:           model.Ptr(model.DocStatusProcessed),
		ProcessingStatus: model.Ptr(model.ProcessingProcessed),
		DataPointCount:   model.Ptr(7),
	})
	require.True(t, ok)

	got, _ := s.Get("a")
	assert.Equal(t, model.DocStatusProcessed, got.Status)
	assert.Equal(t, model.ProcessingProcessed, got.ProcessingStatus)
	assert.Equal(t, 7, got.DataPointCount)
	// Untouched fields survive.
	assert.Equal(t, "a.pdf", got.Name)
}

func TestStore_UpdateUnknownIDIsNoop(t *testing.T) {
	s := New()
	s.Add(doc("a", model.DocTypeW2))

	ok := s.Update("missing", model.DocumentPatch{Status: model.Ptr(model.DocStatusFlagged)})
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestStore_EmptyPatchIsIdentity(t *testing.T) {
	s := New()
	s.Add(doc("a", model.DocTypeW2))
	before, _ := s.Get("a")

	require.True(t, model.DocumentPatch{}.IsZero())
	ok := s.Update("a", model.DocumentPatch{})
	require.True(t, ok)

	after, _ := s.Get("a")
	assert.Equal(t, before, after)
}

func TestStore_RemoveClearsSelection(t *testing.T) {
	s := New()
	s.Add(doc("a", model.DocTypeW2))
	s.Add(doc("b", model.DocTypeReceipt))
	s.Select("a")

	require.NotNil(t, s.Selected())
	assert.True(t, s.Remove("a"))
	assert.Nil(t, s.Selected())
	assert.Equal(t, 1, s.Len())

	// Removing something else leaves an unrelated selection alone.
	s.Select("b")
	assert.False(t, s.Remove("a"))
	require.NotNil(t, s.Selected())
	assert.Equal(t, "b", s.Selected().ID)
}

func TestStore_SelectIsLenient(t *testing.T) {
	s := New()
	s.Add(doc("a", model.DocTypeW2))

	// Selecting a non-existent id is accepted silently; the selection
	// simply resolves to nothing.
	s.Select("ghost")
	assert.Nil(t, s.Selected())

	// And self-heals if that document shows up later.
	s.Add(doc("ghost", model.DocTypeReceipt))
	require.NotNil(t, s.Selected())
	assert.Equal(t, "ghost", s.Selected().ID)
}

func TestStore_Filters(t *testing.T) {
	s := New()
	s.Add(doc("w2", model.DocTypeW2))
	s.Add(doc("int", model.DocType1099INT))
	s.Add(doc("mort", model.DocType1098))
	s.Add(doc("taxdoc", model.DocTypeTaxDocument))
	s.Add(doc("rcpt", model.DocTypeReceipt))
	s.Add(doc("inv", model.DocTypeInvoice))
	s.Add(doc("stmt", model.DocTypeBankStatement))

	s.SetFilter(FilterTax)
	tax := s.Filtered()
	assert.Len(t, tax, 4)
	for _, d := range tax {
		assert.NotContains(t, []string{"Receipt", "Invoice", "Bank Statement"}, d.Type)
	}

	s.SetFilter(FilterReceipt)
	rcpt := s.Filtered()
	assert.Len(t, rcpt, 3)
	for _, d := range rcpt {
		assert.NotContains(t, d.Type, "1099")
		assert.NotContains(t, d.Type, "W-2")
		assert.NotContains(t, d.Type, "1098")
		assert.NotEqual(t, "Tax Document", d.Type)
	}

	s.SetFilter(FilterAll)
	assert.Len(t, s.Filtered(), 7)

	// Filtering never mutates the underlying collection.
	assert.Equal(t, 7, s.Len())
}

func TestStore_FilterFallsBackToCoarseType(t *testing.T) {
	// Documents arriving from the chat channel may carry only the coarse
	// type label; filters must still see them.
	s := New()
	s.Add(model.ProcessedDocument{ID: "x", Type: "1099-INT"})
	s.SetFilter(FilterTax)
	assert.Len(t, s.Filtered(), 1)
}

func TestStore_AddThenFilteredAllPlacesAtIndexZero(t *testing.T) {
	s := New(doc("old", model.DocTypeW2))
	s.Add(doc("new", model.DocTypeReceipt))

	all := s.Filtered()
	require.NotEmpty(t, all)
	assert.Equal(t, "new", all[0].ID)
}

func TestStore_EditFieldPromotesToPass(t *testing.T) {
	d := doc("a", model.DocTypeW2)
	d.Fields = []model.ExtractedField{
		{ID: "f1", Label: "Wages", Value: "$50,000", Confidence: 0.7, Status: model.FieldWarn},
	}
	s := New(d)

	old, ok := s.EditField("a", "f1", "$52,000")
	require.True(t, ok)
	assert.Equal(t, "$50,000", old)

	got, _ := s.Get("a")
	f := got.Field("f1")
	require.NotNil(t, f)
	assert.Equal(t, "$52,000", f.Value)
	assert.Equal(t, model.FieldPass, f.Status)
	assert.Equal(t, model.VerificationUserVerified, f.VerificationStatus)
}

func TestStore_EditFieldUnknownIDs(t *testing.T) {
	s := New(doc("a", model.DocTypeW2))

	_, ok := s.EditField("a", "nope", 1)
	assert.False(t, ok)
	_, ok = s.EditField("nope", "f1", 1)
	assert.False(t, ok)
}

func TestValidFilter(t *testing.T) {
	assert.True(t, ValidFilter("all"))
	assert.True(t, ValidFilter("tax"))
	assert.True(t, ValidFilter("receipt"))
	assert.False(t, ValidFilter("bogus"))
}
