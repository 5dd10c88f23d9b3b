package index

import (
	"fmt"
	"log/slog"

	"github.com/okvist/gitnote/internal/apperr"
	"github.com/okvist/gitnote/internal/models"
	"github.com/okvist/gitnote/internal/parser"
	"github.com/okvist/gitnote/internal/render"
	"github.com/okvist/gitnote/internal/storage"
)

// ChangeProvider is the version-control collaborator: it reports
// which note files changed since the last committed snapshot, stages
// paths for the next commit, and records the commit.
type ChangeProvider interface {
	// Stage marks paths for the next commit; missing paths are
	// tolerated.
	Stage(paths ...string) error
	// ChangedNoteFiles returns repository-relative paths of Markdown
	// note files that differ from the last committed snapshot.
	ChangedNoteFiles() ([]string, error)
	// Commit records a snapshot covering the staged changes.
	Commit(message string) error
}

// Syncer drives one build cycle: stage, discover changed files, parse
// and upsert each into the index, persist once, stage the written
// index, commit.
type Syncer struct {
	store    *Store
	git      ChangeProvider
	files    storage.Provider
	renderer *render.Renderer
	logger   *slog.Logger

	stagePaths []string
	commitMsg  string
}

// NewSyncer wires a sync driver. stagePaths are the repository
// locations staged before every cycle (notes dir, index file, images
// dir).
func NewSyncer(store *Store, git ChangeProvider, files storage.Provider, renderer *render.Renderer, stagePaths []string, commitMsg string, logger *slog.Logger) *Syncer {
	return &Syncer{
		store:      store,
		git:        git,
		files:      files,
		renderer:   renderer,
		stagePaths: stagePaths,
		commitMsg:  commitMsg,
		logger:     logger,
	}
}

// Sync runs one complete build cycle. Any parse or store failure
// aborts the cycle before the single persist at the end, so the index
// file only ever transitions between fully-consistent states. A
// changed file that no longer exists on disk is skipped, not an
// error. Commit failures are surfaced.
func (s *Syncer) Sync() error {
	if err := s.git.Stage(s.stagePaths...); err != nil {
		return fmt.Errorf("sync: stage: %w", err)
	}

	changed, err := s.git.ChangedNoteFiles()
	if err != nil {
		return fmt.Errorf("sync: changed files: %w", err)
	}

	doc, err := s.store.Load()
	if err != nil {
		return err
	}

	upserts := 0
	for _, path := range changed {
		if !s.files.Exists(path) {
			s.logger.Debug("sync: changed file gone, skipping", slog.String("path", path))
			continue
		}
		data, err := s.files.Read(path)
		if err != nil {
			return fmt.Errorf("sync: %s: %w", path, err)
		}
		note, err := s.buildNote(data)
		if err != nil {
			return fmt.Errorf("sync: %s: %w", path, err)
		}
		rec := doc.Upsert(note)
		upserts++
		s.logger.Debug("sync: upserted",
			slog.Int("id", rec.ID),
			slog.String("title", rec.Title),
			slog.String("path", path))
	}

	if err := s.store.Persist(doc); err != nil {
		return err
	}

	// Stage again so the commit captures the index file just written,
	// not the previous cycle's version.
	if err := s.git.Stage(s.stagePaths...); err != nil {
		return fmt.Errorf("sync: stage index: %w", err)
	}

	if err := s.git.Commit(s.commitMsg); err != nil {
		return fmt.Errorf("sync: commit: %w", err)
	}

	s.logger.Info("sync: completed",
		slog.Int("changed", len(changed)),
		slog.Int("upserted", upserts),
		slog.Int("count", doc.Count))
	return nil
}

// buildNote parses a note file and renders its body to HTML.
func (s *Syncer) buildNote(data []byte) (models.Note, error) {
	res, err := parser.Parse(data)
	if err != nil {
		return models.Note{}, err
	}
	if res.Body == "" {
		return models.Note{}, apperr.ErrEmptyBody
	}
	html, err := s.renderer.Render(res.Body)
	if err != nil {
		return models.Note{}, err
	}
	return models.Note{
		Title:       res.Title,
		ContentRaw:  res.Body,
		ContentHTML: html,
		Tags:        res.Tags,
		DateCreated: res.Date,
	}, nil
}
