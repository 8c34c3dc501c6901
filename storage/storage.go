// Package storage keeps raw search page snapshots, on the local filesystem or
// in S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a snapshot does not exist
var ErrNotFound = errors.New("snapshot not found")

// Store saves and reads snapshots by name. Names are slugs; the store adds
// the .html extension.
type Store interface {
	Save(ctx context.Context, name string, html []byte) (string, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Location(name string) string
}

// Config contains storage configuration
type Config struct {
	BasePath string // Base directory for all stored files
}

// DefaultConfig returns default storage configuration
func DefaultConfig() Config {
	return Config{
		BasePath: "./search/testdata",
	}
}

// Storage handles filesystem storage operations
type Storage struct {
	config Config
}

// New creates a new Storage instance
func New(config Config) (*Storage, error) {
	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory: %w", err)
	}

	return &Storage{
		config: config,
	}, nil
}

// Save writes a snapshot, replacing any previous one with the same name.
// Returns the path relative to the base directory.
func (s *Storage) Save(_ context.Context, name string, html []byte) (string, error) {
	rel, err := fileName(name)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(s.config.BasePath, rel), html, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", rel, err)
	}
	return rel, nil
}

// Read returns a stored snapshot
func (s *Storage) Read(_ context.Context, name string) ([]byte, error) {
	rel, err := fileName(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.config.BasePath, rel))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", rel, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", rel, err)
	}
	return data, nil
}

// Location returns the full filesystem path for a snapshot name
func (s *Storage) Location(name string) string {
	return filepath.Join(s.config.BasePath, name+".html")
}

// fileName rejects names that would escape the storage root
func fileName(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid snapshot name %q", name)
	}
	return name + ".html", nil
}
