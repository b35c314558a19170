package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// entryMagic starts every cache file; the header line is followed by the raw document
const entryMagic = "gonogo-cache/1"

// DiskCache persists rendered documents under a directory. Each file is one
// header line carrying the expiry, then the document bytes unchanged.
type DiskCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewDiskCache creates a new disk cache
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}
}

// Get retrieves a document. Expired or unreadable entries are removed and miss.
func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	expires, body, ok := decodeEntry(data)
	if !ok || (!expires.IsZero() && c.now().After(expires)) {
		_ = os.Remove(path)
		return nil, false
	}
	return body, true
}

// Set stores a document. A zero ttl uses the cache default;
// a negative one never expires.
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	var expires time.Time
	if ttl > 0 {
		expires = c.now().Add(ttl)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	// Each writer renames its own temp file so readers never see a partial entry
	f, err := os.CreateTemp(c.dir, "*.tmp")
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	tmp := f.Name()

	_, werr := f.Write(encodeEntry(expires, value))
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(tmp, 0644)
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write cache file: %w", werr)
	}

	if err := os.Rename(tmp, c.path(key)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit cache file: %w", err)
	}

	return nil
}

// Delete removes a document. Missing keys are not an error.
func (c *DiskCache) Delete(key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes all cached files
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// path maps a key onto a file name that is valid on every platform
func (c *DiskCache) path(key string) string {
	return filepath.Join(c.dir, strings.ReplaceAll(key, ":", "_")+".cache")
}

// encodeEntry writes "<magic> <unix-nanos>\n<body>"; 0 means no expiry
func encodeEntry(expires time.Time, body []byte) []byte {
	var nanos int64
	if !expires.IsZero() {
		nanos = expires.UnixNano()
	}

	var buf bytes.Buffer
	buf.Grow(len(body) + 40)
	buf.WriteString(entryMagic)
	buf.WriteByte(' ')
	buf.WriteString(strconv.FormatInt(nanos, 10))
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes()
}

func decodeEntry(data []byte) (time.Time, []byte, bool) {
	header, body, found := bytes.Cut(data, []byte{'\n'})
	if !found {
		return time.Time{}, nil, false
	}

	magic, stamp, found := strings.Cut(string(header), " ")
	if !found || magic != entryMagic {
		return time.Time{}, nil, false
	}

	nanos, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return time.Time{}, nil, false
	}
	if nanos == 0 {
		return time.Time{}, body, true
	}
	return time.Unix(0, nanos), body, true
}
