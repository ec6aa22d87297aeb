package format

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// Stdio is the path that stands for stdin or stdout.
const Stdio = "-"

var compressionSuffixes = []string{".gz", ".bz2", ".xz"}

// BaseExtension returns the lower-cased extension of path once a
// compression suffix has been removed.
func BaseExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for _, sfx := range compressionSuffixes {
		if ext == sfx {
			return strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
		}
	}
	return ext
}

// stripCompression removes a trailing compression suffix from path.
func stripCompression(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for _, sfx := range compressionSuffixes {
		if ext == sfx {
			return strings.TrimSuffix(path, filepath.Ext(path))
		}
	}
	return path
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenReader opens path for reading, decompressing it if needed.
func OpenReader(path string) (io.ReadCloser, error) {
	if path == Stdio {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFile, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrFile, path, err)
		}
		return &multiCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".bz2":
		return &multiCloser{Reader: bzip2.NewReader(f), closers: []io.Closer{f}}, nil
	case ".xz":
		f.Close()
		return nil, fmt.Errorf("%w: xz compression is not supported: %s", domain.ErrFile, path)
	default:
		return f, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type gzipFile struct {
	*gzip.Writer
	f *os.File
}

func (g *gzipFile) Close() error {
	if err := g.Writer.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

// OpenWriter creates path for writing, compressing it if it ends in .gz.
// The parent directory must exist.
func OpenWriter(path string) (io.WriteCloser, error) {
	if path == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".bz2" || ext == ".xz" {
		return nil, fmt.Errorf("%w: cannot write %s compressed files: %s", domain.ErrFile, ext, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFile, err)
	}
	if ext == ".gz" {
		return &gzipFile{Writer: gzip.NewWriter(f), f: f}, nil
	}
	return f, nil
}
