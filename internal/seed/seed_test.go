package seed

import (
	"testing"

	"github.com/jmylchreest/pixelator/internal/colour"
)

func gradient(w, h int) *colour.Buffer {
	buf := colour.NewBuffer(w, h)
	for i := range buf.Len() {
		buf.Set(i, colour.RGB{R: uint8(i), G: uint8(i * 3), B: uint8(i * 7)}, 255)
	}
	return buf
}

func TestContentSeedIsDeterministic(t *testing.T) {
	a, err := ContentSeed(gradient(64, 48))
	if err != nil {
		t.Fatalf("ContentSeed() error = %v", err)
	}
	b, _ := ContentSeed(gradient(64, 48))
	if a != b {
		t.Errorf("same content gave seeds %d and %d", a, b)
	}

	changed := gradient(64, 48)
	changed.Set(0, colour.RGB{R: 1, G: 1, B: 1}, 255)
	c, _ := ContentSeed(changed)
	if a == c {
		t.Error("different content gave the same seed")
	}

	d, _ := ContentSeed(gradient(48, 64))
	if a == d {
		t.Error("different dimensions gave the same seed")
	}
}

func TestFilepathSeed(t *testing.T) {
	a, err := FilepathSeed("photos/a.png")
	if err != nil {
		t.Fatalf("FilepathSeed() error = %v", err)
	}
	b, _ := FilepathSeed("photos/b.png")
	if a == b {
		t.Error("different paths gave the same seed")
	}
	u1, _ := FilepathSeed("https://example.com/a.png")
	u2, _ := FilepathSeed("https://example.com/a.png")
	if u1 != u2 {
		t.Error("URL seeds are not stable")
	}

	if _, err := FilepathSeed(""); err == nil {
		t.Error("FilepathSeed(\"\") should fail")
	}
}

func TestCalculate(t *testing.T) {
	manual := int64(1234)

	tests := []struct {
		name    string
		src     Source
		cfg     Config
		want    *int64
		wantErr bool
	}{
		{name: "manual", cfg: Config{Mode: ModeManual, Value: &manual}, want: &manual},
		{name: "manual without value", cfg: Config{Mode: ModeManual}, wantErr: true},
		{name: "content without buffer", cfg: Config{Mode: ModeContent}, wantErr: true},
		{name: "empty mode means content", src: Source{Buffer: gradient(2, 2)}, cfg: Config{}},
		{name: "filepath without path", cfg: Config{Mode: ModeFilepath}, wantErr: true},
		{name: "filepath", src: Source{Path: "x.png"}, cfg: Config{Mode: ModeFilepath}},
		{name: "random", cfg: Config{Mode: ModeRandom}},
		{name: "unknown", cfg: Config{Mode: "lunar"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.src, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Calculate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.want != nil && got != *tt.want {
				t.Errorf("Calculate() = %d, want %d", got, *tt.want)
			}
		})
	}
}

func TestRandReproducesExtraction(t *testing.T) {
	buf := gradient(40, 40)
	pixels := buf.Sample(1)

	extract := func() []colour.RGB {
		rng, err := Rand(Source{Buffer: buf}, Config{Mode: ModeContent})
		if err != nil {
			t.Fatalf("Rand() error = %v", err)
		}
		return colour.Extract(pixels, 5, colour.AlgorithmKMeansLAB, rng).Colors
	}

	a, b := extract(), extract()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("content-seeded runs differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range ValidModes() {
		got, err := ParseMode(string(m))
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %q, %v", m, got, err)
		}
	}
	if got, err := ParseMode(" Content "); err != nil || got != ModeContent {
		t.Errorf("ParseMode should normalise case and spaces, got %q, %v", got, err)
	}
	if _, err := ParseMode("sometimes"); err == nil {
		t.Error("ParseMode accepted an invalid mode")
	}

	var m Mode
	if err := m.Decode("filepath"); err != nil || m != ModeFilepath {
		t.Errorf("Decode() = %q, %v", m, err)
	}
}
