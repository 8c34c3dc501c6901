package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewS3Storage(t *testing.T) {
	config := S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		Bucket:          "test-bucket",
		Prefix:          "snapshots",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
	}

	storage, err := NewS3Storage(context.Background(), config)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if got, want := storage.Location("forskola"), "s3://test-bucket/snapshots/forskola.html"; got != want {
		t.Errorf("Location() = %q, want %q", got, want)
	}
}

func TestNewS3StorageValidation(t *testing.T) {
	valid := S3Config{
		Region:          "us-east-1",
		Bucket:          "test-bucket",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
	}

	tests := []struct {
		name   string
		mutate func(*S3Config)
	}{
		{"missing bucket", func(c *S3Config) { c.Bucket = "" }},
		{"missing region", func(c *S3Config) { c.Region = "" }},
		{"missing credentials", func(c *S3Config) { c.AccessKeyID = ""; c.SecretAccessKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if _, err := NewS3Storage(context.Background(), cfg); err == nil {
				t.Fatal("expected an error, got nil")
			}
		})
	}
}

func TestS3KeyRejectsTraversal(t *testing.T) {
	s := &S3Storage{bucket: "b", prefix: "snapshots"}

	if _, err := s.key("../secret"); err == nil {
		t.Fatal("expected an error for a traversal name")
	}
	key, err := s.key("bygglov")
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	if key != "snapshots/bygglov.html" {
		t.Errorf("key = %q", key)
	}
}

func TestFilesystemSaveAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fixtures")
	s, err := New(Config{BasePath: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	rel, err := s.Save(ctx, "forskola-ansokan", []byte("<html>v1</html>"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rel != "forskola-ansokan.html" {
		t.Errorf("Save returned %q", rel)
	}

	// saving again replaces the snapshot
	if _, err := s.Save(ctx, "forskola-ansokan", []byte("<html>v2</html>")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Read(ctx, "forskola-ansokan")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "<html>v2</html>" {
		t.Errorf("Read = %q", got)
	}

	if _, err := os.Stat(s.Location("forskola-ansokan")); err != nil {
		t.Errorf("Location does not point at the file: %v", err)
	}
}

func TestFilesystemReadMissing(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = s.Read(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFilesystemRejectsInvalidNames(t *testing.T) {
	s, err := New(Config{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, name := range []string{"", "../escape", "a/b", `a\b`} {
		if _, err := s.Save(context.Background(), name, []byte("x")); err == nil {
			t.Errorf("Save(%q) succeeded, want error", name)
		}
	}
}

var (
	_ Store = (*Storage)(nil)
	_ Store = (*S3Storage)(nil)
)
