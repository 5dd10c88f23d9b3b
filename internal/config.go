// Package internal provides the application configuration and the
// per-command runtime logic.
package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Fixed repository layout. These are conventions of the data format,
// not configuration: the downstream blog renderer expects them.
const (
	NotesDir  = "notes"
	ImagesDir = "images"
	IndexFile = "data.json"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Repo   RepoConfig        `yaml:"repo"`
	Serve  ServeConfig       `yaml:"serve"`
	Editor EditorConfig      `yaml:"editor"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Repo.Validate(); err != nil {
		return err
	}
	return c.Serve.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// RepoConfig locates the note repository and carries the metadata
// used to seed a fresh index. Root is explicit configuration threaded
// through every component; there is no ambient environment global.
type RepoConfig struct {
	Root          string `yaml:"root"`
	Author        string `yaml:"author"`
	BlogTitle     string `yaml:"blog_title"`
	CommitMessage string `yaml:"commit_message"`
	// Offline skips the git remote sanity check for repositories
	// that are never pushed.
	Offline bool `yaml:"offline"`
}

// Validate validates the repository configuration.
func (c *RepoConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.CommitMessage, validation.Required),
	)
}

// ServeConfig holds the preview server configuration.
type ServeConfig struct {
	Port int `yaml:"port"`
}

// Address returns the preview server listen address.
func (c *ServeConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the serve configuration.
func (c *ServeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// EditorConfig holds the command used to open new notes. An empty
// command falls back to $EDITOR, then xdg-open.
type EditorConfig struct {
	Command string `yaml:"command"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Repo: RepoConfig{
			CommitMessage: "GitNote Commit",
		},
		Serve: ServeConfig{
			Port: 8080,
		},
	}
}
