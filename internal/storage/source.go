package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source supplies the raw bytes and identity of one batch entry. The core
// pipeline decodes the bytes itself; a Source only acquires them.
type Source interface {
	Name() string
	Size() int64
	Bytes(ctx context.Context) ([]byte, error)
}

// FileSource reads an image from the local filesystem.
type FileSource struct {
	path string
	size int64
}

// NewFileSource stats path and returns a source for it.
func NewFileSource(path string) (*FileSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not an image", path)
	}
	return &FileSource{path: path, size: info.Size()}, nil
}

func (f *FileSource) Name() string { return filepath.Base(f.path) }

func (f *FileSource) Size() int64 { return f.size }

func (f *FileSource) Bytes(_ context.Context) ([]byte, error) {
	return os.ReadFile(f.path)
}

// Path returns the full filesystem path.
func (f *FileSource) Path() string { return f.path }

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// IsImagePath reports whether path has a recognized image extension.
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// CollectFiles expands the given paths into file sources. Directories are
// walked recursively in lexical order, keeping only recognized image
// extensions; explicitly listed files are accepted as-is. Input order is
// preserved.
func CollectFiles(paths []string) ([]Source, error) {
	var sources []Source

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			src, err := NewFileSource(p)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !IsImagePath(path) {
				return nil
			}
			src, err := NewFileSource(path)
			if err != nil {
				return err
			}
			sources = append(sources, src)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return sources, nil
}

// memorySource wraps bytes already fetched from a remote backend.
type memorySource struct {
	name string
	data []byte
}

func (m *memorySource) Name() string { return m.name }

func (m *memorySource) Size() int64 { return int64(len(m.data)) }

func (m *memorySource) Bytes(_ context.Context) ([]byte, error) { return m.data, nil }
