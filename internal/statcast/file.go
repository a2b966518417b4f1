package statcast

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-statcast-diagnosis/internal/model"
)

// readCloser pairs a decompressing reader with the closers beneath it.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenDataFile opens a local CSV export, decompressing .gz, .bz2 and .zst
// files by extension.
func OpenDataFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	rc := &readCloser{Reader: f, closers: []func() error{f.Close}}
	switch {
	case strings.HasSuffix(path, ".bz2"):
		rc.Reader = bzip2.NewReader(f)
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		rc.Reader = dec
		rc.closers = append([]func() error{func() error { dec.Close(); return nil }}, rc.closers...)
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		rc.Reader = gz
		rc.closers = append([]func() error{gz.Close}, rc.closers...)
	}
	return rc, nil
}

// ReadDataFile parses a local (optionally compressed) Statcast CSV export.
func ReadDataFile(path string) ([]model.EventRecord, error) {
	rc, err := OpenDataFile(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	events, err := ParseCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return events, nil
}
