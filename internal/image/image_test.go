package image

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/pixelator/internal/colour"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
}

func TestFileLoaderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "red.png")
	writePNG(t, path, solid(3, 2, color.NRGBA{R: 255, A: 255}))

	img, err := NewFileLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := img.Bounds().Size(); got != (image.Point{X: 3, Y: 2}) {
		t.Errorf("loaded size = %v, want 3x2", got)
	}
	if got := colour.ToRGB(img.At(1, 1)); got != (colour.RGB{R: 255}) {
		t.Errorf("pixel = %v, want red", got)
	}
}

func TestFileLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	notImage := filepath.Join(dir, "notes.png")
	if err := os.WriteFile(notImage, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "empty", path: ""},
		{name: "missing", path: filepath.Join(dir, "missing.png")},
		{name: "directory", path: dir},
		{name: "not an image", path: notImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFileLoader().Load(context.Background(), tt.path); err == nil {
				t.Errorf("Load(%q) should fail", tt.path)
			}
		})
	}
}

func TestSmartLoaderURL(t *testing.T) {
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, solid(2, 2, color.NRGBA{G: 200, A: 255})); err != nil {
		t.Fatal(err)
	}

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write(encoded.Bytes())
	}))
	defer srv.Close()

	ctx := context.Background()
	url := srv.URL + "/green.png"

	img, err := NewSmartLoader().Load(ctx, url)
	if err != nil {
		t.Fatalf("Load(url) error = %v", err)
	}
	if got := colour.ToRGB(img.At(0, 0)); got != (colour.RGB{G: 200}) {
		t.Errorf("pixel = %v, want rgb(0, 200, 0)", got)
	}

	cached := NewSmartLoader(WithCacheDir(t.TempDir()))
	for range 3 {
		if _, err := cached.Load(ctx, url); err != nil {
			t.Fatalf("cached Load(url) error = %v", err)
		}
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hit %d times, want 2 (one uncached, one cached)", n)
	}
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		maxDim int
		want   image.Point
	}{
		{name: "landscape", w: 800, h: 400, maxDim: 200, want: image.Point{X: 200, Y: 100}},
		{name: "portrait", w: 300, h: 900, maxDim: 200, want: image.Point{X: 66, Y: 200}},
		{name: "already small", w: 120, h: 80, maxDim: 200, want: image.Point{X: 120, Y: 80}},
		{name: "never upscales", w: 10, h: 10, maxDim: 200, want: image.Point{X: 10, Y: 10}},
		{name: "thin strip keeps a pixel", w: 1000, h: 1, maxDim: 200, want: image.Point{X: 200, Y: 1}},
		{name: "disabled", w: 500, h: 500, maxDim: 0, want: image.Point{X: 500, Y: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Downscale(solid(tt.w, tt.h, color.NRGBA{B: 255, A: 255}), tt.maxDim).Bounds().Size()
			if got != tt.want {
				t.Errorf("Downscale(%dx%d, %d) = %v, want %v", tt.w, tt.h, tt.maxDim, got, tt.want)
			}
		})
	}
}

func TestDownscaleKeepsSolidColour(t *testing.T) {
	img := Downscale(solid(640, 480, color.NRGBA{R: 12, G: 34, B: 56, A: 255}), 200)

	buf := ToBuffer(img)
	for i := range buf.Len() {
		c, a := buf.At(i)
		if c != (colour.RGB{R: 12, G: 34, B: 56}) || a != 255 {
			t.Fatalf("pixel %d = %v/%d after downscale", i, c, a)
		}
	}
}

func TestToBuffer(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.Pix = []uint8{10, 250}

	buf := ToBuffer(gray)
	want := []uint8{10, 10, 10, 255, 250, 250, 250, 255}
	if diff := cmp.Diff(want, buf.Pix); diff != "" {
		t.Errorf("ToBuffer(gray) mismatch (-want +got):\n%s", diff)
	}

	// Sub-images are rebased to the origin.
	src := solid(4, 4, color.NRGBA{R: 1, A: 255})
	src.SetNRGBA(2, 2, color.NRGBA{R: 99, A: 128})
	sub := ToBuffer(src.SubImage(image.Rect(2, 2, 4, 4)))
	if sub.Width != 2 || sub.Height != 2 {
		t.Fatalf("sub-image buffer is %dx%d, want 2x2", sub.Width, sub.Height)
	}
	if c, a := sub.At(0); c.R != 99 || a != 128 {
		t.Errorf("sub-image origin pixel = %v/%d", c, a)
	}
}

func TestToBufferCopiesNRGBA(t *testing.T) {
	src := solid(2, 2, color.NRGBA{R: 5, A: 255})
	buf := ToBuffer(src)
	buf.Pix[0] = 77

	if src.Pix[0] != 5 {
		t.Error("ToBuffer shares pixels with its source image")
	}
}

func TestFromBufferSavesTransparency(t *testing.T) {
	buf := colour.NewBuffer(2, 1)
	buf.Set(0, colour.RGB{R: 200, G: 100, B: 50}, 255)
	buf.Set(1, colour.RGB{R: 200, G: 100, B: 50}, 0)

	path := filepath.Join(t.TempDir(), "out.png")
	writePNG(t, path, FromBuffer(buf))

	img, err := NewFileLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	back := ToBuffer(img)
	if _, a := back.At(1); a != 0 {
		t.Errorf("transparent pixel alpha = %d after save", a)
	}
	if c, a := back.At(0); c != (colour.RGB{R: 200, G: 100, B: 50}) || a != 255 {
		t.Errorf("opaque pixel = %v/%d after save", c, a)
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	gallery := filepath.Join(dir, "gallery")
	for _, name := range []string{"b.png", "a.png"} {
		writePNG(t, filepath.Join(gallery, name), solid(1, 1, color.NRGBA{A: 255}))
	}
	if err := os.WriteFile(filepath.Join(gallery, "readme.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	single := filepath.Join(dir, "single.png")
	writePNG(t, single, solid(1, 1, color.NRGBA{A: 255}))

	got, err := ExpandPaths([]string{single, gallery, "https://example.com/x.png"})
	if err != nil {
		t.Fatalf("ExpandPaths() error = %v", err)
	}
	want := []string{
		single,
		filepath.Join(gallery, "a.png"),
		filepath.Join(gallery, "b.png"),
		"https://example.com/x.png",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExpandPaths() mismatch (-want +got):\n%s", diff)
	}

	if _, err := ExpandPaths([]string{filepath.Join(dir, "nope.png")}); err == nil {
		t.Error("ExpandPaths() accepted a missing file")
	}
	if _, err := ExpandPaths([]string{t.TempDir()}); err == nil {
		t.Error("ExpandPaths() accepted a directory without images")
	}
}
