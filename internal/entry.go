package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okvist/gitnote/internal/api"
	"github.com/okvist/gitnote/internal/apperr"
	"github.com/okvist/gitnote/internal/gitrepo"
	"github.com/okvist/gitnote/internal/index"
	"github.com/okvist/gitnote/internal/noteservice"
	"github.com/okvist/gitnote/internal/render"
	"github.com/okvist/gitnote/internal/storage"
)

// App wires the configured components together and exposes one
// method per CLI command. Construction performs the startup sanity
// checks; any failure there is fatal before any mutation happens.
type App struct {
	config   *Config
	logger   *slog.Logger
	files    storage.Provider
	git      *gitrepo.Client
	store    *index.Store
	renderer *render.Renderer
	service  *noteservice.Service
	syncer   *index.Syncer
}

// New builds the application from options and verifies the
// repository: the root must exist, contain a git repository, and
// (unless offline is configured) have a remote.
func New(opts ...Option) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(app.logger)

	if err := os.MkdirAll(filepath.Join(cfg.Repo.Root, NotesDir), 0o755); err != nil {
		return nil, fmt.Errorf("create notes dir: %w", err)
	}

	files, err := storage.NewFS(cfg.Repo.Root)
	if err != nil {
		return nil, err
	}
	app.files = files

	app.git = gitrepo.NewClient(cfg.Repo.Root, NotesDir, app.logger)
	if !app.git.IsRepo() {
		return nil, fmt.Errorf("%s: %w", cfg.Repo.Root, apperr.ErrNotARepo)
	}
	if !cfg.Repo.Offline {
		hasRemote, err := app.git.HasRemote()
		if err != nil {
			return nil, err
		}
		if !hasRemote {
			return nil, fmt.Errorf("%s: %w (set repo.offline to skip)", cfg.Repo.Root, apperr.ErrNoRemote)
		}
	}

	app.renderer = render.New()
	app.store = index.NewStore(files, IndexFile, cfg.Repo.Author, cfg.Repo.BlogTitle, app.logger)
	app.service = noteservice.NewService(files, app.store, cfg.Repo.Root, NotesDir, resolveEditor(cfg.Editor.Command), app.logger)
	app.syncer = index.NewSyncer(
		app.store,
		app.git,
		files,
		app.renderer,
		[]string{NotesDir, IndexFile, ImagesDir},
		cfg.Repo.CommitMessage,
		app.logger,
	)

	app.logger.Debug("configuration loaded",
		slog.String("root", cfg.Repo.Root),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return app, nil
}

// Build runs one sync cycle: changed note files are parsed, upserted
// into the index, persisted, and committed.
func (a *App) Build(_ context.Context) error {
	return a.syncer.Sync()
}

// NewNote creates a skeleton note and opens it in the editor.
func (a *App) NewNote(ctx context.Context, title, tags string, force bool) error {
	rel, err := a.service.CreateSkeleton(ctx, title, tags, force)
	if err != nil {
		return err
	}
	fmt.Println("Saved at:", rel)
	return nil
}

// Inline creates a complete note from command-line input.
func (a *App) Inline(_ context.Context, title, body, tags string, force bool) error {
	rel, err := a.service.SaveInline(title, body, tags, force)
	if err != nil {
		return err
	}
	fmt.Println("Saved at:", rel)
	return nil
}

// List prints every index entry as "id -- title".
func (a *App) List(_ context.Context, w io.Writer) error {
	return a.service.List(w)
}

// Serve starts the read-only preview server until ctx is cancelled
// or a shutdown signal arrives.
func (a *App) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    a.config.Serve.Address(),
		Handler: api.NewRouter(a.store),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("preview server starting", slog.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		waitForShutdown(gCtx, a.logger)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	return g.Wait()
}

// Watch syncs once, then rebuilds the index whenever a note file
// changes, until ctx is cancelled or a shutdown signal arrives.
func (a *App) Watch(ctx context.Context) error {
	if err := a.syncer.Sync(); err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, cancel := context.WithCancel(gCtx)

	g.Go(func() error {
		defer cancel()
		waitForShutdown(gCtx, a.logger)
		return nil
	})

	g.Go(func() error {
		return index.Watch(watchCtx, a.syncer, a.files, a.config.Repo.Root, NotesDir, a.logger)
	})

	return g.Wait()
}

// waitForShutdown blocks until SIGINT/SIGTERM or context cancellation.
func waitForShutdown(ctx context.Context, logger *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}
}

// resolveEditor picks the editor command: explicit config, then
// $EDITOR, then xdg-open.
func resolveEditor(configured string) string {
	if configured != "" {
		return configured
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "xdg-open"
}
