package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/pixelator/internal/colour"
)

func TestExtractAllKeepsOrder(t *testing.T) {
	paths := make([]string, 20)
	for i := range paths {
		paths[i] = fmt.Sprintf("img-%02d.png", i)
	}

	var running, peak atomic.Int32
	results := extractAll(context.Background(), hclog.NewNullLogger(), paths, 3, func(_ context.Context, path string) (*colour.Palette, error) {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		return colour.NewNamedPalette(path, nil), nil
	})

	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.err != nil {
			t.Errorf("result %d error = %v", i, r.err)
			continue
		}
		if r.source != paths[i] || r.palette.Name != paths[i] {
			t.Errorf("result %d = %s/%s, want %s", i, r.source, r.palette.Name, paths[i])
		}
	}
	if p := peak.Load(); p > 3 {
		t.Errorf("%d tasks ran at once, want at most 3", p)
	}
}

func TestExtractAllIsolatesFailures(t *testing.T) {
	paths := []string{"ok.png", "bad.png", "panic.png", "ok2.png"}
	errBad := errors.New("cannot decode")

	results := extractAll(context.Background(), hclog.NewNullLogger(), paths, 2, func(_ context.Context, path string) (*colour.Palette, error) {
		switch path {
		case "bad.png":
			return nil, errBad
		case "panic.png":
			panic("decoder exploded")
		}
		return colour.NewNamedPalette(path, nil), nil
	})

	if results[0].err != nil || results[3].err != nil {
		t.Errorf("healthy images failed: %v, %v", results[0].err, results[3].err)
	}
	if !errors.Is(results[1].err, errBad) {
		t.Errorf("bad.png error = %v, want %v", results[1].err, errBad)
	}
	if results[2].err == nil || !strings.Contains(results[2].err.Error(), "panicked") {
		t.Errorf("panic.png error = %v, want a panic report", results[2].err)
	}
	if results[2].source != "panic.png" {
		t.Errorf("panic.png source = %q", results[2].source)
	}
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in      string
		want    colour.Metric
		wantErr bool
	}{
		{in: "rgb", want: colour.MetricRGB},
		{in: "LAB", want: colour.MetricLAB},
		{in: "deltae", want: colour.MetricLAB},
		{in: "hsv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMetric(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMetric() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseMetric() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseColours(t *testing.T) {
	got, err := parseColours([]string{"#000000, fff", "#ff0000"})
	if err != nil {
		t.Fatalf("parseColours() error = %v", err)
	}
	want := []colour.RGB{{}, {R: 255, G: 255, B: 255}, {R: 255}}
	if len(got) != len(want) {
		t.Fatalf("got %d colours, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("colour %d = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := parseColours([]string{" , "}); err == nil {
		t.Error("parseColours() should reject an empty list")
	}
}

func TestChoiceValue(t *testing.T) {
	var format string
	v := newChoiceValue(&format, "hex", outputFormats...)
	if v.String() != "hex" {
		t.Fatalf("default = %q, want hex", v.String())
	}

	if err := v.Set(" JSON "); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if format != "json" {
		t.Errorf("format = %q, want json", format)
	}

	if err := v.Set("yaml"); err == nil {
		t.Error("Set(yaml) should fail")
	}
	if format != "json" {
		t.Errorf("rejected value changed the flag to %q", format)
	}
}
