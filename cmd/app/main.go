package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/okvist/gitnote/internal"
	pkgconfig "github.com/okvist/gitnote/pkg/config"
)

// loadApp builds the application from the config file plus any
// command-line overrides.
func loadApp(cmd *cli.Command) (*internal.App, error) {
	cfg := internal.NewDefaultConfig()

	// Seed the root from the flag before loading so a config file
	// without repo.root still validates.
	if root := cmd.String("root"); root != "" {
		cfg.Repo.Root = root
	}

	configPath := cmd.String("config")
	if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Flags win over the config file.
	if root := cmd.String("root"); root != "" {
		cfg.Repo.Root = root
	}
	if msg := cmd.String("message"); msg != "" {
		cfg.Repo.CommitMessage = msg
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Serve.Port = int(port)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return internal.New(internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:  "gitnote",
		Usage: "Markdown note manager with a JSON index and git-backed history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("GITNOTE_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Repository root (overrides config)",
				Sources: cli.EnvVars("GITNOTE_ROOT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "new",
				Usage: "Create a skeleton note and open it in the editor",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title of your note", Required: true},
					&cli.StringFlag{Name: "tags", Aliases: []string{"g"}, Usage: "Comma-separated tags"},
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing note with the same slug"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := loadApp(cmd)
					if err != nil {
						return err
					}
					return app.NewNote(ctx, cmd.String("title"), cmd.String("tags"), cmd.Bool("force"))
				},
			},
			{
				Name:  "inline",
				Usage: "Create a complete note from the command line",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title of your note", Required: true},
					&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "Body of your note", Required: true},
					&cli.StringFlag{Name: "tags", Aliases: []string{"g"}, Usage: "Comma-separated tags"},
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing note with the same slug"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := loadApp(cmd)
					if err != nil {
						return err
					}
					return app.Inline(ctx, cmd.String("title"), cmd.String("body"), cmd.String("tags"), cmd.Bool("force"))
				},
			},
			{
				Name:  "build",
				Usage: "Sync changed notes into the index and commit",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "Commit message"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := loadApp(cmd)
					if err != nil {
						return err
					}
					return app.Build(ctx)
				},
			},
			{
				Name:  "list",
				Usage: "List indexed notes",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := loadApp(cmd)
					if err != nil {
						return err
					}
					return app.List(ctx, os.Stdout)
				},
			},
			{
				Name:  "serve",
				Usage: "Serve rendered notes over HTTP (read-only)",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := loadApp(cmd)
					if err != nil {
						return err
					}
					return app.Serve(ctx)
				},
			},
			{
				Name:  "watch",
				Usage: "Rebuild the index whenever a note file changes",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					app, err := loadApp(cmd)
					if err != nil {
						return err
					}
					return app.Watch(ctx)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
