package store

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/pixelator/internal/colour"
)

// JSONFile is a Store backed by a single JSON document, rewritten atomically on
// every change. A path ending in ".xz" is read and written xz-compressed.
type JSONFile struct {
	mu       sync.RWMutex
	path     string
	compress bool
	data     *collection
	logger   hclog.Logger
}

// OpenJSONFile loads the store at path. A missing file is an empty store;
// it is created on the first Put.
func OpenJSONFile(path string, logger hclog.Logger) (*JSONFile, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	s := &JSONFile{
		path:     path,
		compress: strings.EqualFold(filepath.Ext(path), ".xz"),
		data:     newCollection(),
		logger:   logger.Named("json"),
	}

	palettes, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, p := range palettes {
		if err := s.data.put(p); err != nil {
			s.logger.Warn("skipping stored palette", "name", p.Name, "error", err)
		}
	}

	s.logger.Debug("opened palette store", "path", path, "compressed", s.compress, "palettes", len(s.data.order))
	return s, nil
}

// Path returns the file backing the store.
func (s *JSONFile) Path() string {
	return s.path
}

func (s *JSONFile) load() ([]colour.Palette, error) {
	file, err := os.Open(s.path) // #nosec G304 - Store path is configured by the user
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open palette store: %w", err)
	}
	defer file.Close()

	var r io.Reader = bufio.NewReader(file)
	if s.compress {
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = xzr
	}

	palettes, err := DecodePalettes(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load palette store %s: %w", s.path, err)
	}
	return palettes, nil
}

// save writes data to a temporary file next to the store and renames it into place.
func (s *JSONFile) save(data *collection) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Config directory needs standard permissions
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary store file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := s.encode(tmp, data.list()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write palette store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace palette store: %w", err)
	}
	return nil
}

func (s *JSONFile) encode(w io.Writer, palettes []colour.Palette) error {
	if !s.compress {
		return EncodePalettes(w, palettes)
	}

	xzw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	if err := EncodePalettes(xzw, palettes); err != nil {
		xzw.Close()
		return err
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("failed to finish xz stream: %w", err)
	}
	return nil
}

// update applies fn to a copy of the current state, persists it, and only then
// makes it current.
func (s *JSONFile) update(fn func(*collection) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.save(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// List implements Store.
func (s *JSONFile) List(_ context.Context) ([]colour.Palette, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.list(), nil
}

// Get implements Store.
func (s *JSONFile) Get(_ context.Context, name string) (colour.Palette, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.get(name)
}

// Put implements Store.
func (s *JSONFile) Put(_ context.Context, p colour.Palette) error {
	if err := s.update(func(c *collection) error { return c.put(p) }); err != nil {
		return err
	}
	s.logger.Debug("saved palette", "name", strings.TrimSpace(p.Name), "colours", len(p.Colors))
	return nil
}

// Delete implements Store.
func (s *JSONFile) Delete(_ context.Context, name string) error {
	if err := s.update(func(c *collection) error { return c.remove(name) }); err != nil {
		return err
	}
	s.logger.Debug("deleted palette", "name", strings.TrimSpace(name))
	return nil
}

// Close implements Store.
func (s *JSONFile) Close() error {
	return nil
}
