package config

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/pixelator/internal/colour"
	"github.com/jmylchreest/pixelator/internal/seed"
)

var envKeys = []string{
	"PIXELATOR_COLOURS",
	"PIXELATOR_ALGORITHM",
	"PIXELATOR_SAMPLE_STEP",
	"PIXELATOR_MAX_DIMENSION",
	"PIXELATOR_STORE",
	"PIXELATOR_WORKERS",
	"PIXELATOR_SEED_MODE",
	"PIXELATOR_CACHE_DIR",
}

// clearEnv unsets every variable for the duration of the test.
// An empty but set variable is not the same as an unset one to envconfig.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PIXELATOR_COLOURS", "16")
	t.Setenv("PIXELATOR_ALGORITHM", "median")
	t.Setenv("PIXELATOR_SAMPLE_STEP", "1")
	t.Setenv("PIXELATOR_MAX_DIMENSION", "0")
	t.Setenv("PIXELATOR_STORE", "/tmp/palettes.db")
	t.Setenv("PIXELATOR_WORKERS", "2")
	t.Setenv("PIXELATOR_SEED_MODE", "Random")
	t.Setenv("PIXELATOR_CACHE_DIR", "/tmp/cache")

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{
		Colours:      16,
		Algorithm:    colour.AlgorithmMedianCut,
		SampleStep:   1,
		MaxDimension: 0,
		Store:        "/tmp/palettes.db",
		Workers:      2,
		SeedMode:     seed.ModeRandom,
		CacheDir:     "/tmp/cache",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{key: "PIXELATOR_ALGORITHM", value: "octree", wantErr: "unknown algorithm"},
		{key: "PIXELATOR_SEED_MODE", value: "dice", wantErr: "invalid seed mode"},
		{key: "PIXELATOR_COLOURS", value: "0", wantErr: "color count"},
		{key: "PIXELATOR_COLOURS", value: "many", wantErr: "COLOURS"},
		{key: "PIXELATOR_WORKERS", value: "0", wantErr: "workers"},
		{key: "PIXELATOR_MAX_DIMENSION", value: "-1", wantErr: "max dimension"},
		{key: "PIXELATOR_SAMPLE_STEP", value: "0", wantErr: "sample step"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
