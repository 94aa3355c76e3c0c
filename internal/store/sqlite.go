package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"
	_ "modernc.org/sqlite" // Register the "sqlite" driver

	"github.com/jmylchreest/pixelator/internal/colour"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite is a Store backed by a SQLite database.
type SQLite struct {
	db     *sql.DB
	logger hclog.Logger
}

// OpenSQLite opens (creating if needed) the database at path and applies
// any pending migrations.
func OpenSQLite(ctx context.Context, path string, logger hclog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("sqlite")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 - Config directory needs standard permissions
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Pragmas below are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	applied, err := runMigrations(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("opened palette store", "path", path, "migrations_applied", applied)
	return &SQLite{db: db, logger: logger}, nil
}

// runMigrations applies the embedded migrations in name order and returns
// how many were new.
func runMigrations(ctx context.Context, db *sql.DB) (int, error) {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		);
	`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return 0, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(entries)

	applied := 0
	for _, name := range entries {
		var count int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE name = ?", name).Scan(&count); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("start migration tx %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("execute migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations(name, applied_at) VALUES (?, ?)",
			name,
			time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("commit migration %s: %w", name, err)
		}
		applied++
	}

	return applied, nil
}

// List implements Store.
func (s *SQLite) List(ctx context.Context) ([]colour.Palette, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.name, c.hex
		FROM palettes p
		LEFT JOIN palette_colours c ON c.palette = p.name
		ORDER BY p.position, c.idx
	`)
	if err != nil {
		return nil, fmt.Errorf("list palettes: %w", err)
	}
	defer rows.Close()

	var out []colour.Palette
	for rows.Next() {
		var (
			name string
			hex  sql.NullString
		)
		if err := rows.Scan(&name, &hex); err != nil {
			return nil, fmt.Errorf("scan palette row: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Name != name {
			out = append(out, colour.Palette{Name: name, Colors: []colour.RGB{}})
		}
		if !hex.Valid {
			continue
		}
		c, err := colour.ParseHex(hex.String)
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", name, err)
		}
		last := &out[len(out)-1]
		last.Colors = append(last.Colors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list palettes: %w", err)
	}

	if out == nil {
		out = []colour.Palette{}
	}
	return out, nil
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, name string) (colour.Palette, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return colour.Palette{}, err
	}

	var exists int
	err = s.db.QueryRowContext(ctx, "SELECT 1 FROM palettes WHERE name = ?", n).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return colour.Palette{}, fmt.Errorf("%w: %s", ErrNotFound, n)
	}
	if err != nil {
		return colour.Palette{}, fmt.Errorf("get palette %q: %w", n, err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT hex FROM palette_colours WHERE palette = ? ORDER BY idx", n)
	if err != nil {
		return colour.Palette{}, fmt.Errorf("get palette %q: %w", n, err)
	}
	defer rows.Close()

	p := colour.Palette{Name: n, Colors: []colour.RGB{}}
	for rows.Next() {
		var hex string
		if err := rows.Scan(&hex); err != nil {
			return colour.Palette{}, fmt.Errorf("scan colour: %w", err)
		}
		c, err := colour.ParseHex(hex)
		if err != nil {
			return colour.Palette{}, fmt.Errorf("palette %q: %w", n, err)
		}
		p.Colors = append(p.Colors, c)
	}
	if err := rows.Err(); err != nil {
		return colour.Palette{}, fmt.Errorf("get palette %q: %w", n, err)
	}
	return p, nil
}

// Put implements Store.
func (s *SQLite) Put(ctx context.Context, p colour.Palette) error {
	p, err := prepare(p)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx, "UPDATE palettes SET updated_at = ? WHERE name = ?", now, p.Name)
	if err != nil {
		return fmt.Errorf("update palette %q: %w", p.Name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO palettes(name, position, created_at, updated_at)
			VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM palettes), ?, ?)
		`, p.Name, now, now); err != nil {
			return fmt.Errorf("insert palette %q: %w", p.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM palette_colours WHERE palette = ?", p.Name); err != nil {
		return fmt.Errorf("clear colours of %q: %w", p.Name, err)
	}
	for i, c := range p.Colors {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO palette_colours(palette, idx, hex) VALUES (?, ?, ?)",
			p.Name, i, c.Hex(),
		); err != nil {
			return fmt.Errorf("insert colour %d of %q: %w", i, p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit palette %q: %w", p.Name, err)
	}
	s.logger.Debug("saved palette", "name", p.Name, "colours", len(p.Colors))
	return nil
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, name string) error {
	n, err := NormalizeName(name)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM palette_colours WHERE palette = ?", n); err != nil {
		return fmt.Errorf("delete colours of %q: %w", n, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM palettes WHERE name = ?", n)
	if err != nil {
		return fmt.Errorf("delete palette %q: %w", n, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, n)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete %q: %w", n, err)
	}
	s.logger.Debug("deleted palette", "name", n)
	return nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}
