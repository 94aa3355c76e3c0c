package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		url     string
		wantExt string
	}{
		{url: "https://example.com/a.png", wantExt: ".png"},
		{url: "https://example.com/a.JPG?size=large", wantExt: ".jpg"},
		{url: "https://example.com/image", wantExt: ".img"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := Filename(tt.url)
			if !strings.HasSuffix(got, tt.wantExt) {
				t.Errorf("Filename(%q) = %q, want suffix %q", tt.url, got, tt.wantExt)
			}
			if Filename(tt.url) != got {
				t.Error("Filename is not deterministic")
			}
		})
	}
}

func TestGetDownloadsOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("imagebytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	ctx := context.Background()
	url := srv.URL + "/cat.png"

	first, err := Get(ctx, url, Options{Dir: dir})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := Get(ctx, url, Options{Dir: dir})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if first != second {
		t.Errorf("cached paths differ: %s vs %s", first, second)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "imagebytes" {
		t.Errorf("cached content = %q", data)
	}

	if _, err := Get(ctx, url, Options{Dir: dir, Refresh: true}); err != nil {
		t.Fatalf("Get(refresh) error = %v", err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("refresh did not re-download, hits = %d", n)
	}
}

func TestGetRejectsNonHTTP(t *testing.T) {
	if _, err := Get(context.Background(), "file:///etc/passwd", Options{Dir: t.TempDir()}); err == nil {
		t.Error("Get() accepted a non-HTTP URL")
	}
}
