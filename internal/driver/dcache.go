package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"constlit/internal/constcheck"
	"constlit/internal/diag"
	"constlit/internal/source"
)

// Current schema version - increment when VerdictPayload format changes
const verdictCacheSchemaVersion uint16 = 1

// DiskCache хранит вердикты и диагностики документов на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Digest is a SHA-256 cache key.
type Digest [32]byte

// CachedSpan is a span without its file; cached spans always point into the
// document the payload belongs to.
type CachedSpan struct {
	Start uint32
	End   uint32
}

type CachedNote struct {
	Span CachedSpan
	Msg  string
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Primary  CachedSpan
	Notes    []CachedNote
}

type CachedLiteral struct {
	Span       CachedSpan
	Status     uint8
	Violations int
}

type CachedHoistGroup struct {
	Fingerprint string
	Spans       []CachedSpan
}

// VerdictPayload is everything the driver needs to report a document
// without decoding it again.
type VerdictPayload struct {
	// Schema version for safe invalidation when format changes
	Schema      uint16
	Path        string
	ContentHash Digest

	Diagnostics []CachedDiagnostic
	Literals    []CachedLiteral
	Hoist       []CachedHoistGroup
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "verdicts", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *VerdictPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode verdicts: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A payload of a
// different schema counts as a miss.
func (c *DiskCache) Get(key Digest, out *VerdictPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode verdicts: %w", err)
	}
	if out.Schema != verdictCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// cacheKey: H(schema || content || policy || prelude). Everything that can
// change a verdict participates.
func cacheKey(content [32]byte, opts *Options) Digest {
	h := sha256.New()
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], verdictCacheSchemaVersion)
	_, _ = h.Write(buf[:])
	_, _ = h.Write(content[:])
	if opts.Policy.AllowConstLocalsInLiterals {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte(strings.Join(opts.Prelude, "\x00")))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func toCachedSpan(sp source.Span) CachedSpan {
	return CachedSpan{Start: sp.Start, End: sp.End}
}

func (s CachedSpan) restore(file source.FileID) source.Span {
	return source.Span{File: file, Start: s.Start, End: s.End}
}

// filePayload converts a freshly checked file for caching.
func filePayload(res *FileResult, hash Digest) *VerdictPayload {
	payload := &VerdictPayload{
		Schema:      verdictCacheSchemaVersion,
		Path:        res.Path,
		ContentHash: hash,
	}
	for _, d := range res.Bag.Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Primary:  toCachedSpan(d.Primary),
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Span: toCachedSpan(n.Span), Msg: n.Msg})
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	for _, lit := range res.Literals {
		payload.Literals = append(payload.Literals, CachedLiteral{
			Span:       toCachedSpan(lit.Span),
			Status:     uint8(lit.Status),
			Violations: lit.Violations,
		})
	}
	for _, g := range res.Hoist {
		cg := CachedHoistGroup{Fingerprint: g.Fingerprint}
		for _, sp := range g.Spans {
			cg.Spans = append(cg.Spans, toCachedSpan(sp))
		}
		payload.Hoist = append(payload.Hoist, cg)
	}
	return payload
}

// restore fills a file result from a cached payload.
func (p *VerdictPayload) restore(res *FileResult) {
	for _, cd := range p.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  cd.Primary.restore(res.FileID),
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: n.Span.restore(res.FileID), Msg: n.Msg})
		}
		res.Bag.Add(d)
	}
	for _, lit := range p.Literals {
		res.Literals = append(res.Literals, LiteralSummary{
			Span:       lit.Span.restore(res.FileID),
			Status:     constcheck.Status(lit.Status),
			Violations: lit.Violations,
		})
	}
	for _, g := range p.Hoist {
		hg := HoistSummary{Fingerprint: g.Fingerprint}
		for _, sp := range g.Spans {
			hg.Spans = append(hg.Spans, sp.restore(res.FileID))
		}
		res.Hoist = append(res.Hoist, hg)
	}
	res.Cached = true
}
