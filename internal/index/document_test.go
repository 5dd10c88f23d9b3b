package index

import (
	"fmt"
	"testing"

	"github.com/okvist/gitnote/internal/models"
)

func note(title, html string) models.Note {
	return models.Note{
		Title:       title,
		ContentRaw:  "raw",
		ContentHTML: html,
		DateCreated: "01-01-2024 10:00:00",
	}
}

func TestUpsert_IdMonotonicity(t *testing.T) {
	doc := NewDocument("Alice", "Blog")
	for i := 1; i <= 5; i++ {
		rec := doc.Upsert(note(fmt.Sprintf("note %d", i), "<p>x</p>"))
		if rec.ID != i {
			t.Errorf("insert %d: id = %d, want %d", i, rec.ID, i)
		}
	}
	if len(doc.Notes) != 5 {
		t.Errorf("len(notes) = %d, want 5", len(doc.Notes))
	}
}

func TestUpsert_Idempotent(t *testing.T) {
	doc := NewDocument("Alice", "Blog")
	first := doc.Upsert(note("same", "<p>x</p>"))
	second := doc.Upsert(note("same", "<p>x</p>"))

	if len(doc.Notes) != 1 {
		t.Fatalf("len(notes) = %d, want 1", len(doc.Notes))
	}
	if second.ID != first.ID {
		t.Errorf("id changed: %d -> %d", first.ID, second.ID)
	}
}

func TestUpsert_TitleIdentityPreservesId(t *testing.T) {
	doc := NewDocument("Alice", "Blog")
	doc.Upsert(note("a", "<p>1</p>"))
	orig := doc.Upsert(note("b", "<p>1</p>"))

	updated := doc.Upsert(note("b", "<p>2</p>"))
	if updated.ID != orig.ID {
		t.Errorf("id = %d, want %d", updated.ID, orig.ID)
	}
	if len(doc.Notes) != 2 {
		t.Errorf("len(notes) = %d, want 2", len(doc.Notes))
	}
	rec, ok := doc.FindByTitle("b")
	if !ok || rec.Content != "<p>2</p>" {
		t.Errorf("record = %+v, want updated content", rec)
	}
}

func TestUpsert_NoIdReuseAfterGap(t *testing.T) {
	doc := NewDocument("Alice", "Blog")
	doc.Notes = []NoteRecord{{ID: 7, Title: "existing"}}
	doc.rebuild()

	rec := doc.Upsert(note("fresh", "<p>x</p>"))
	if rec.ID != 8 {
		t.Errorf("id = %d, want 8 (max+1)", rec.ID)
	}
}

func TestUpsert_ExplicitIdKept(t *testing.T) {
	doc := NewDocument("Alice", "Blog")
	n := note("carried", "<p>x</p>")
	n.ID = 42
	rec := doc.Upsert(n)
	if rec.ID != 42 {
		t.Errorf("id = %d, want 42", rec.ID)
	}
}

func TestUpsert_ExplicitIdCollisionAssignsFresh(t *testing.T) {
	doc := NewDocument("Alice", "Blog")
	doc.Upsert(note("first", "<p>1</p>"))

	// A carried id that would collide with an existing record gets a
	// fresh one instead; ids stay unique.
	n := note("second", "<p>2</p>")
	n.ID = 1
	rec := doc.Upsert(n)
	if rec.ID != 2 {
		t.Errorf("id = %d, want fresh id 2", rec.ID)
	}
	if got, _ := doc.FindByTitle("first"); got.ID != 1 {
		t.Errorf("existing record id = %d, want 1", got.ID)
	}
}

func TestNextID_EmptySeedsAtOne(t *testing.T) {
	doc := NewDocument("Alice", "Blog")
	if got := doc.NextID(); got != 1 {
		t.Errorf("NextID = %d, want 1", got)
	}
}

func TestFindByID(t *testing.T) {
	doc := NewDocument("Alice", "Blog")
	doc.Upsert(note("a", "<p>1</p>"))
	doc.Upsert(note("b", "<p>2</p>"))

	rec, ok := doc.FindByID(2)
	if !ok || rec.Title != "b" {
		t.Errorf("record = %+v, ok = %v", rec, ok)
	}
	if _, ok := doc.FindByID(99); ok {
		t.Error("expected miss for id 99")
	}
}

func TestTitles_Sorted(t *testing.T) {
	doc := NewDocument("Alice", "Blog")
	doc.Upsert(note("zebra", "<p>1</p>"))
	doc.Upsert(note("apple", "<p>2</p>"))

	titles := doc.Titles()
	if len(titles) != 2 || titles[0] != "apple" || titles[1] != "zebra" {
		t.Errorf("titles = %v", titles)
	}
}

func TestUpsert_TagsAbsentVsEmpty(t *testing.T) {
	doc := NewDocument("Alice", "Blog")
	n := note("tagless", "<p>x</p>")
	rec := doc.Upsert(n)
	if rec.Tags != nil {
		t.Errorf("tags = %v, want nil", rec.Tags)
	}

	n2 := note("tagged", "<p>x</p>")
	n2.Tags = []string{}
	rec2 := doc.Upsert(n2)
	if rec2.Tags == nil {
		t.Error("empty tag list should stay distinct from absent")
	}
}
