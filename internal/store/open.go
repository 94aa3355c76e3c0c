package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Backend identifies a storage implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

// DefaultPath returns <user config dir>/pixelator/palettes.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "pixelator", "palettes.json"), nil
}

// BackendFor picks the backend from a store path:
// ".db", ".sqlite" and ".sqlite3" use SQLite, ".json" and ".json.xz" use a
// JSON file, and ":memory:" keeps palettes in memory only.
func BackendFor(path string) (Backend, error) {
	if path == ":memory:" {
		return BackendMemory, nil
	}

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return BackendSQLite, nil
	case strings.HasSuffix(lower, ".json"), strings.HasSuffix(lower, ".json.xz"):
		return BackendJSON, nil
	default:
		return "", fmt.Errorf("unsupported palette store %q (use .json, .json.xz, .db or .sqlite)", path)
	}
}

// Open opens the palette store at path, layered under the builtin catalogue.
// An empty path uses DefaultPath.
func Open(ctx context.Context, path string, logger hclog.Logger) (*Catalogue, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("store")

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	backend, err := BackendFor(path)
	if err != nil {
		return nil, err
	}

	var user Store
	switch backend {
	case BackendMemory:
		user = NewMemory()
	case BackendSQLite:
		user, err = OpenSQLite(ctx, path, logger)
	case BackendJSON:
		user, err = OpenJSONFile(path, logger)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("palette store ready", "backend", backend, "path", path)
	return NewCatalogue(user, Builtins()), nil
}
