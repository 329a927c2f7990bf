// Package collector implements the content-addressed module cache of spec
// section 6's persisted state: a directory tree keyed by scheme/host/path
// plus the sha256 of the fetched source, each entry paired with a sibling
// metadata file carrying the HTTP validators (ETag/Last-Modified) needed to
// decide whether a cached copy can still be trusted.
package collector

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkl-lang/pkl-core/internal/diag"
)

// Meta is the sidecar JSON blob stored next to a cached module's source,
// the same hand-rolled-header-plus-JSON-metadata split the teacher's binfile
// format uses (a fixed binary header there, a content digest here) to keep
// validators alongside payload without parsing the payload itself.
type Meta struct {
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
	SourceURI    string `json:"sourceUri"`
}

// Collector is a content-addressed cache directory rooted at Dir.
type Collector struct {
	Dir string
}

// New constructs a Collector rooted at dir. dir is created lazily on first
// Put; a Collector over a nonexistent directory is valid to query (every
// Get simply misses).
func New(dir string) *Collector {
	return &Collector{Dir: dir}
}

// entryDir returns the directory holding uri's cache entry, mirroring spec
// section 6's `<cache>/<scheme>/<host>/<path>` layout.
func (c *Collector) entryDir(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", diag.New(diag.KindIOError, "invalid module cache key %q: %v", uri, err)
	}

	return filepath.Join(c.Dir, u.Scheme, u.Host, filepath.FromSlash(u.Path)), nil
}

// digestOf returns the hex sha256 digest of source, used as the cached
// source file's basename so two fetches of the same bytes collapse onto the
// same entry regardless of validator churn.
func digestOf(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Entry is one cached module: its source bytes and the metadata recorded
// alongside it.
type Entry struct {
	Source []byte
	Meta   Meta
}

// Get looks up uri's cached entry by expectedDigest if non-empty (a
// known-good digest the caller already has, e.g. to validate a conditional
// re-fetch), or, when expectedDigest is "", returns the most recently
// modified `.pkl` entry in entryDir (an unconditional "do we have anything
// cached for this URI" query).
func (c *Collector) Get(uri string, expectedDigest string) (Entry, bool, error) {
	dir, err := c.entryDir(uri)
	if err != nil {
		return Entry{}, false, err
	}

	digest := expectedDigest
	if digest == "" {
		digest, err = c.latestDigest(dir)
		if err != nil || digest == "" {
			return Entry{}, false, nil
		}
	}

	sourcePath := filepath.Join(dir, digest+".pkl")
	source, err := os.ReadFile(sourcePath)
	if os.IsNotExist(err) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, diag.New(diag.KindIOError, "reading cached module %s: %v", sourcePath, err)
	}

	meta, err := c.readMeta(dir, digest)
	if err != nil {
		return Entry{}, false, err
	}

	return Entry{Source: source, Meta: meta}, true, nil
}

// latestDigest returns the digest of the most recently modified `.pkl` entry
// in dir, or "" if dir holds none. Used when a caller asks for a cached copy
// of uri without already knowing its digest.
func (c *Collector) latestDigest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", diag.New(diag.KindIOError, "reading module cache directory %s: %v", dir, err)
	}

	var best string
	var bestTime int64

	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) != ".pkl" {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		if mt := info.ModTime().Unix(); best == "" || mt > bestTime {
			best = name[:len(name)-len(".pkl")]
			bestTime = mt
		}
	}

	return best, nil
}

func (c *Collector) readMeta(dir, digest string) (Meta, error) {
	metaPath := filepath.Join(dir, digest+".meta")

	data, err := os.ReadFile(metaPath)
	if os.IsNotExist(err) {
		return Meta{}, nil
	}
	if err != nil {
		return Meta{}, diag.New(diag.KindIOError, "reading module cache metadata %s: %v", metaPath, err)
	}

	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return Meta{}, diag.New(diag.KindIOError, "corrupt module cache metadata %s: %v", metaPath, err)
	}

	return m, nil
}

// Put writes source (and its validators) into uri's cache entry, keyed by
// the sha256 digest of source, and returns that digest.
func (c *Collector) Put(uri string, source []byte, validators Meta) (string, error) {
	dir, err := c.entryDir(uri)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", diag.New(diag.KindIOError, "creating module cache directory %s: %v", dir, err)
	}

	digest := digestOf(source)
	validators.SourceURI = uri

	sourcePath := filepath.Join(dir, digest+".pkl")
	if err := os.WriteFile(sourcePath, source, 0o644); err != nil {
		return "", diag.New(diag.KindIOError, "writing cached module %s: %v", sourcePath, err)
	}

	metaData, err := json.Marshal(validators)
	if err != nil {
		return "", diag.New(diag.KindIOError, "marshaling module cache metadata: %v", err)
	}

	metaPath := filepath.Join(dir, digest+".meta")
	if err := os.WriteFile(metaPath, metaData, 0o644); err != nil {
		return "", diag.New(diag.KindIOError, "writing module cache metadata %s: %v", metaPath, err)
	}

	return digest, nil
}
