// Package index maintains the JSON note index and the sync cycle
// that reconciles it with the Markdown files on disk.
package index

import (
	"encoding/json"
	"sort"

	"github.com/okvist/gitnote/internal/models"
)

// NoteRecord is one persisted index entry. Content holds rendered
// HTML only; the Markdown file on disk remains the source of truth
// for raw text. Tags marshal to null when absent, which is distinct
// from an empty list.
type NoteRecord struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	DateCreated string   `json:"date_created"`
}

// Document is the in-memory form of the index file. Pages is carried
// opaquely for the downstream blog renderer; the index never touches
// it. The JSON keys mirror the historical data.json layout.
type Document struct {
	BlogTitle string            `json:"Blog Title"`
	Author    string            `json:"Author"`
	Count     int               `json:"count"`
	Notes     []NoteRecord      `json:"notes"`
	Pages     []json.RawMessage `json:"pages"`

	// byTitle maps title to position in Notes so upserts avoid a
	// linear scan. Rebuilt on load, maintained on append.
	byTitle map[string]int
}

// NewDocument returns an empty document seeded with the given
// metadata.
func NewDocument(author, blogTitle string) *Document {
	return &Document{
		BlogTitle: blogTitle,
		Author:    author,
		Notes:     []NoteRecord{},
		Pages:     []json.RawMessage{},
		byTitle:   map[string]int{},
	}
}

// rebuild reconstructs the title lookup after unmarshaling.
func (d *Document) rebuild() {
	d.byTitle = make(map[string]int, len(d.Notes))
	for i, n := range d.Notes {
		d.byTitle[n.Title] = i
	}
}

// NextID returns the next free identifier: max(existing)+1, or 1 for
// an empty index. Ids of replaced records are preserved and ids are
// never reused, so the sequence is monotonic.
func (d *Document) NextID() int {
	max := 0
	for _, n := range d.Notes {
		if n.ID > max {
			max = n.ID
		}
	}
	return max + 1
}

// Upsert inserts or updates the record for note, keyed by title.
// A new title appends a record with a fresh id; the note's own id is
// honored when set and not already taken by another record. An
// existing title is replaced in place, preserving its id. Returns the
// resulting record.
//
// This is the single point of truth for create-vs-update semantics:
// identity is the title, never the id.
func (d *Document) Upsert(note models.Note) NoteRecord {
	if d.byTitle == nil {
		d.rebuild()
	}

	if i, ok := d.byTitle[note.Title]; ok {
		rec := toRecord(note, d.Notes[i].ID)
		d.Notes[i] = rec
		return rec
	}

	id := note.ID
	if id <= 0 {
		id = d.NextID()
	} else if _, taken := d.FindByID(id); taken {
		id = d.NextID()
	}
	rec := toRecord(note, id)
	d.Notes = append(d.Notes, rec)
	d.byTitle[rec.Title] = len(d.Notes) - 1
	return rec
}

// FindByTitle returns the record with the given title, if any.
func (d *Document) FindByTitle(title string) (NoteRecord, bool) {
	if d.byTitle == nil {
		d.rebuild()
	}
	i, ok := d.byTitle[title]
	if !ok {
		return NoteRecord{}, false
	}
	return d.Notes[i], true
}

// FindByID returns the record with the given id, if any.
func (d *Document) FindByID(id int) (NoteRecord, bool) {
	for _, n := range d.Notes {
		if n.ID == id {
			return n, true
		}
	}
	return NoteRecord{}, false
}

// Titles returns every indexed title in sorted order.
func (d *Document) Titles() []string {
	out := make([]string, 0, len(d.Notes))
	for _, n := range d.Notes {
		out = append(out, n.Title)
	}
	sort.Strings(out)
	return out
}

func toRecord(note models.Note, id int) NoteRecord {
	return NoteRecord{
		ID:          id,
		Title:       note.Title,
		Content:     note.ContentHTML,
		Tags:        note.Tags,
		DateCreated: note.DateCreated,
	}
}
