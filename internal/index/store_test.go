package index

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/okvist/gitnote/internal/models"
	"github.com/okvist/gitnote/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	files, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return NewStore(files, "data.json", "Alice", "Blog", discardLogger()), root
}

func TestLoad_FreshIndexSeededAndWritten(t *testing.T) {
	store, root := testStore(t)

	doc, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Author != "Alice" || doc.BlogTitle != "Blog" {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Count != 0 || len(doc.Notes) != 0 {
		t.Errorf("count = %d, notes = %v", doc.Count, doc.Notes)
	}

	// First use creates the file with the exact historical shape.
	data, err := os.ReadFile(filepath.Join(root, "data.json"))
	if err != nil {
		t.Fatalf("index file not written: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal written index: %v", err)
	}
	for _, key := range []string{"Blog Title", "Author", "count", "notes", "pages"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q in written index", key)
		}
	}
	if string(raw["notes"]) != "[]" {
		t.Errorf("notes = %s, want []", raw["notes"])
	}
	if string(raw["pages"]) != "[]" {
		t.Errorf("pages = %s, want []", raw["pages"])
	}
}

func TestPersist_RecomputesCount(t *testing.T) {
	store, _ := testStore(t)
	doc, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}

	doc.Upsert(models.Note{Title: "a", ContentHTML: "<p>1</p>", DateCreated: "01-01-2024 10:00:00"})
	doc.Upsert(models.Note{Title: "b", ContentHTML: "<p>2</p>", DateCreated: "01-01-2024 10:00:00"})
	doc.Count = 99 // never trusted

	if err := store.Persist(doc); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Count != 2 || len(reloaded.Notes) != 2 {
		t.Errorf("count = %d, len = %d, want 2/2", reloaded.Count, len(reloaded.Notes))
	}
}

func TestLoadPersist_RoundTrip(t *testing.T) {
	store, _ := testStore(t)
	doc, _ := store.Load()
	doc.Upsert(models.Note{
		Title:       "keep",
		ContentHTML: "<p>html</p>",
		Tags:        []string{"x", "y"},
		DateCreated: "05-03-2024 08:00:00",
	})
	if err := store.Persist(doc); err != nil {
		t.Fatal(err)
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := reloaded.FindByTitle("keep")
	if !ok {
		t.Fatal("record missing after reload")
	}
	if rec.ID != 1 || rec.Content != "<p>html</p>" || rec.DateCreated != "05-03-2024 08:00:00" {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.Tags) != 2 {
		t.Errorf("tags = %v", rec.Tags)
	}
}

func TestPersist_AbsentTagsAreNull(t *testing.T) {
	store, root := testStore(t)
	doc, _ := store.Load()
	doc.Upsert(models.Note{Title: "tagless", ContentHTML: "<p>x</p>", DateCreated: "01-01-2024 10:00:00"})
	if err := store.Persist(doc); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(filepath.Join(root, "data.json"))
	var raw struct {
		Notes []map[string]json.RawMessage `json:"notes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if got := string(raw.Notes[0]["tags"]); got != "null" {
		t.Errorf("tags = %s, want null", got)
	}
}

func TestLoad_MalformedIndex(t *testing.T) {
	store, root := testStore(t)
	if err := os.WriteFile(filepath.Join(root, "data.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestPersist_NoTempLeftovers(t *testing.T) {
	store, root := testStore(t)
	doc, _ := store.Load()
	if err := store.Persist(doc); err != nil {
		t.Fatal(err)
	}
	matches, _ := filepath.Glob(filepath.Join(root, ".gitnote-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}
