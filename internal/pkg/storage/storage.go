package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")
)

// FileStorage keeps generated report files.
type FileStorage interface {
	// Save writes r to path and returns the cleaned path
	Save(ctx context.Context, r io.Reader, path string) (string, error)

	// Open retrieves a stored file
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// List returns the files below dir, newest first
	List(ctx context.Context, dir string) ([]FileInfo, error)

	// URL returns the public URL of path
	URL(path string) string
}

type FileInfo struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified_at"`
}
