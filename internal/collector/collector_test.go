package collector

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPutThenGetRoundTrips(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)

	uri := "https://example.com/pkg/mod.pkl"
	source := []byte("x = 1\n")

	digest, err := c.Put(uri, source, Meta{ETag: `"abc"`, LastModified: "Tue, 01 Jan 2030 00:00:00 GMT"})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, ok, err := c.Get(uri, digest)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected cache hit")
	}

	if string(entry.Source) != string(source) {
		t.Errorf("Source = %q, want %q", entry.Source, source)
	}
	if entry.Meta.ETag != `"abc"` {
		t.Errorf("ETag = %q, want \"abc\"", entry.Meta.ETag)
	}
	if entry.Meta.SourceURI != uri {
		t.Errorf("SourceURI = %q, want %q", entry.Meta.SourceURI, uri)
	}
}

func TestGetMissReturnsFalse(t *testing.T) {
	c := New(t.TempDir())

	_, ok, err := c.Get("https://example.com/missing.pkl", "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected cache miss")
	}
}

func TestGetWithoutDigestFindsLatest(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)

	uri := "https://example.com/pkg/mod.pkl"
	if _, err := c.Put(uri, []byte("x = 1\n"), Meta{}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, ok, err := c.Get(uri, "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected cache hit with no explicit digest")
	}
	if string(entry.Source) != "x = 1\n" {
		t.Errorf("Source = %q", entry.Source)
	}
}

func TestEntryDirLayoutMatchesSchemeHostPath(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)

	uri := "https://pkg.pkl-lang.org/foo/bar.pkl"
	if _, err := c.Put(uri, []byte("x = 1\n"), Meta{}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	want := filepath.Join(dir, "https", "pkg.pkl-lang.org", "foo", "bar.pkl")
	entries, err := os.ReadDir(want)
	if err != nil {
		t.Fatalf("expected entry directory %s to exist: %v", want, err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 files (.pkl + .meta), got %d", len(entries))
	}
}
