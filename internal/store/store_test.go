package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/pixelator/internal/colour"
)

func pal(name string, hexes ...string) colour.Palette {
	colors := make([]colour.RGB, len(hexes))
	for i, h := range hexes {
		colors[i] = colour.MustParseHex(h)
	}
	return colour.Palette{Name: name, Colors: colors}
}

func names(ps []colour.Palette) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

type backendCase struct {
	name string
	// open returns a store; reopen (may be nil) returns a new handle on the same data.
	open func(t *testing.T) (Store, func() Store)
}

func backends() []backendCase {
	return []backendCase{
		{
			name: "memory",
			open: func(*testing.T) (Store, func() Store) { return NewMemory(), nil },
		},
		{
			name: "json",
			open: func(t *testing.T) (Store, func() Store) {
				path := filepath.Join(t.TempDir(), "palettes.json")
				return mustJSON(t, path), func() Store { return mustJSON(t, path) }
			},
		},
		{
			name: "json.xz",
			open: func(t *testing.T) (Store, func() Store) {
				path := filepath.Join(t.TempDir(), "nested", "palettes.json.xz")
				return mustJSON(t, path), func() Store { return mustJSON(t, path) }
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) (Store, func() Store) {
				path := filepath.Join(t.TempDir(), "palettes.db")
				return mustSQLite(t, path), func() Store { return mustSQLite(t, path) }
			},
		},
	}
}

func mustJSON(t *testing.T, path string) Store {
	t.Helper()
	s, err := OpenJSONFile(path, nil)
	if err != nil {
		t.Fatalf("OpenJSONFile() error = %v", err)
	}
	return s
}

func mustSQLite(t *testing.T, path string) Store {
	t.Helper()
	s, err := OpenSQLite(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBackends(t *testing.T) {
	ctx := context.Background()

	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			s, reopen := bc.open(t)

			list, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 0 {
				t.Fatalf("new store lists %v", names(list))
			}

			for _, p := range []colour.Palette{
				pal("sunset", "#ff4500", "#800000"),
				pal("  forest  ", "#3b5323"),
				pal("ocean", "#4682b4", "#5f9ea0", "#87cefa"),
			} {
				if err := s.Put(ctx, p); err != nil {
					t.Fatalf("Put(%q) error = %v", p.Name, err)
				}
			}

			// Replacing keeps the original position.
			if err := s.Put(ctx, pal("sunset", "#000000")); err != nil {
				t.Fatalf("Put(replace) error = %v", err)
			}

			got, err := s.Get(ctx, "forest")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if diff := cmp.Diff(pal("forest", "#3b5323"), got); diff != "" {
				t.Errorf("Get() mismatch (-want +got):\n%s", diff)
			}

			if err := s.Delete(ctx, "forest"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}

			want := []colour.Palette{
				pal("sunset", "#000000"),
				pal("ocean", "#4682b4", "#5f9ea0", "#87cefa"),
			}
			list, err = s.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if diff := cmp.Diff(want, list); diff != "" {
				t.Errorf("List() mismatch (-want +got):\n%s", diff)
			}

			if reopen != nil {
				list, err = reopen().List(ctx)
				if err != nil {
					t.Fatalf("List() after reopen error = %v", err)
				}
				if diff := cmp.Diff(want, list); diff != "" {
					t.Errorf("List() after reopen mismatch (-want +got):\n%s", diff)
				}
			}

			// New entries go to the end, even after a deletion.
			if err := s.Put(ctx, pal("forest", "#202b24")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			list, _ = s.List(ctx)
			if diff := cmp.Diff([]string{"sunset", "ocean", "forest"}, names(list)); diff != "" {
				t.Errorf("order after re-adding (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBackendErrors(t *testing.T) {
	ctx := context.Background()

	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			s, _ := bc.open(t)

			if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
			}
			if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
			}
			if err := s.Put(ctx, pal("   ", "#ffffff")); !errors.Is(err, ErrInvalidName) {
				t.Errorf("Put(blank name) error = %v, want ErrInvalidName", err)
			}
			if err := s.Put(ctx, pal("empty")); !errors.Is(err, ErrEmptyPalette) {
				t.Errorf("Put(no colours) error = %v, want ErrEmptyPalette", err)
			}
			if _, err := s.Get(ctx, ""); !errors.Is(err, ErrInvalidName) {
				t.Errorf("Get(\"\") error = %v, want ErrInvalidName", err)
			}

			list, err := s.List(ctx)
			if err != nil || len(list) != 0 {
				t.Errorf("failed writes left %v (err %v)", names(list), err)
			}
		})
	}
}

func TestBackendsReturnCopies(t *testing.T) {
	ctx := context.Background()

	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			s, _ := bc.open(t)

			p := pal("mine", "#112233")
			if err := s.Put(ctx, p); err != nil {
				t.Fatal(err)
			}
			p.Colors[0] = colour.RGB{}

			got, _ := s.Get(ctx, "mine")
			got.Colors[0] = colour.RGB{R: 1}

			again, _ := s.Get(ctx, "mine")
			if again.Colors[0] != colour.MustParseHex("#112233") {
				t.Errorf("stored palette was mutated through a caller's slice: %v", again.Colors)
			}
		})
	}
}

func TestSQLiteMigrationsRunOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "palettes.sqlite")

	first, err := OpenSQLite(ctx, path, nil)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := first.Put(ctx, pal("kept", "#abcdef")); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := OpenSQLite(ctx, path, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	var count int
	if err := second.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatal(err)
	}
	entries, _ := migrationsFS.ReadDir("migrations")
	if count != len(entries) {
		t.Errorf("schema_migrations has %d rows, want %d", count, len(entries))
	}

	if _, err := second.Get(ctx, "kept"); err != nil {
		t.Errorf("data lost across reopen: %v", err)
	}
}

func TestCatalogue(t *testing.T) {
	ctx := context.Background()
	user := NewMemory()
	if err := user.Put(ctx, pal("Retro Sunset", "#000000")); err != nil {
		t.Fatal(err)
	}
	cat := NewCatalogue(user, Builtins())

	if err := cat.Put(ctx, pal("mine", "#010203")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	list, err := cat.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	builtins := Builtins()
	if len(list) != len(builtins)+1 {
		t.Fatalf("List() returned %d palettes, want %d", len(list), len(builtins)+1)
	}
	if diff := cmp.Diff(names(builtins), names(list[:len(builtins)])); diff != "" {
		t.Errorf("builtins are not listed first (-want +got):\n%s", diff)
	}
	if list[len(list)-1].Name != "mine" {
		t.Errorf("last palette = %q, want mine", list[len(list)-1].Name)
	}

	got, err := cat.Get(ctx, "Retro Sunset")
	if err != nil {
		t.Fatalf("Get(builtin) error = %v", err)
	}
	if got.Colors[0] != colour.MustParseHex("#ff4500") {
		t.Errorf("builtin was shadowed by a stored palette: %v", got.Colors)
	}

	if err := cat.Put(ctx, pal("Apollo", "#ffffff")); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Put(builtin) error = %v, want ErrReadOnly", err)
	}
	if err := cat.Delete(ctx, " kenney "); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Delete(builtin) error = %v, want ErrReadOnly", err)
	}
	if err := cat.Delete(ctx, "mine"); err != nil {
		t.Errorf("Delete(user) error = %v", err)
	}
}

func TestBuiltins(t *testing.T) {
	builtins := Builtins()
	if len(builtins) != 16 {
		t.Fatalf("got %d builtin palettes, want 16", len(builtins))
	}
	if builtins[0].Name != "Forest Adventure" || builtins[len(builtins)-1].Name != "kenney" {
		t.Errorf("unexpected catalogue order: first %q, last %q", builtins[0].Name, builtins[len(builtins)-1].Name)
	}

	sizes := map[string]int{"Apollo": 46, "Sweetie 16": 16, "Journey": 64, "Dramescape Hex 8": 8, "kenney": 10}
	for _, b := range builtins {
		if want, ok := sizes[b.Name]; ok && len(b.Colors) != want {
			t.Errorf("%s has %d colours, want %d", b.Name, len(b.Colors), want)
		}
	}

	// Eight-digit entries drop their alpha byte.
	kenney := builtins[len(builtins)-1]
	if kenney.Colors[1] != (colour.RGB{R: 0xf0, G: 0xe3, B: 0xc2}) {
		t.Errorf("kenney[1] = %v", kenney.Colors[1])
	}

	builtins[0].Colors[0] = colour.RGB{}
	if Builtins()[0].Colors[0] == (colour.RGB{}) {
		t.Error("Builtins() returned shared storage")
	}
}

func TestAutoName(t *testing.T) {
	now := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.Local)

	tests := []struct {
		source string
		want   string
	}{
		{source: "/photos/beach.jpg", want: "beach+24-03-05-07-08-09"},
		{source: "archive.tar.png", want: "archive.tar+24-03-05-07-08-09"},
		{source: "https://example.com/img/cat.webp?w=200", want: "cat+24-03-05-07-08-09"},
		{source: "", want: "image+24-03-05-07-08-09"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := AutoName(tt.source, now); got != tt.want {
				t.Errorf("AutoName(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestBackendFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Backend
		wantErr bool
	}{
		{path: "p.json", want: BackendJSON},
		{path: "p.JSON.xz", want: BackendJSON},
		{path: "p.db", want: BackendSQLite},
		{path: "p.sqlite", want: BackendSQLite},
		{path: "p.sqlite3", want: BackendSQLite},
		{path: ":memory:", want: BackendMemory},
		{path: "p.yaml", wantErr: true},
		{path: "p.xz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := BackendFor(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BackendFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("BackendFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"palettes.json", "palettes.json.xz", "palettes.db"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cat, err := Open(ctx, path, nil)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if err := cat.Put(ctx, pal("saved", "#123456")); err != nil {
				t.Fatal(err)
			}
			if err := cat.Close(); err != nil {
				t.Fatal(err)
			}

			cat, err = Open(ctx, path, nil)
			if err != nil {
				t.Fatalf("reopen error = %v", err)
			}
			defer cat.Close()

			if _, err := cat.Get(ctx, "saved"); err != nil {
				t.Errorf("Get() after reopen error = %v", err)
			}
			if !cat.IsBuiltin("Apollo") {
				t.Error("catalogue is missing builtins")
			}
		})
	}
}
