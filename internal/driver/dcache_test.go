package driver

import (
	"crypto/sha256"
	"os"
	"testing"

	"synthizer/internal/diag"
)

func testCache(t *testing.T) *DiskCache {
	t.Helper()
	c, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c := testCache(t)
	hash := sha256.Sum256([]byte("x = 1;"))

	if _, ok, err := c.Get(hash); err != nil || ok {
		t.Fatalf("Get on empty cache = (%v, %v), want miss", ok, err)
	}

	in := CacheEntry{
		Path:       "patch.syn",
		Entrypoint: "main",
		Diagnostics: []diag.Diagnostic{{
			Severity: diag.SevError,
			Code:     diag.SynEmptyExpression,
			Message:  "empty expression in file",
			NoPos:    true,
		}},
	}
	if err := c.Put(hash, in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	out, ok, err := c.Get(hash)
	if err != nil || !ok {
		t.Fatalf("Get after Put = (%v, %v), want hit", ok, err)
	}
	if out.Path != in.Path || out.Entrypoint != in.Entrypoint {
		t.Errorf("entry metadata mangled: %+v", out)
	}
	if len(out.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != diag.SynEmptyExpression || d.Message != in.Diagnostics[0].Message || !d.NoPos {
		t.Errorf("diagnostic mangled: %+v", d)
	}
}

func TestDiskCacheDropsCorruptEntries(t *testing.T) {
	c := testCache(t)
	hash := sha256.Sum256([]byte("y = 2;"))

	if err := os.WriteFile(c.pathFor(hash), []byte("not msgpack"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(hash); err != nil || ok {
		t.Fatalf("Get on corrupt entry = (%v, %v), want silent miss", ok, err)
	}
	if _, err := os.Stat(c.pathFor(hash)); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	c := testCache(t)
	hash := sha256.Sum256([]byte("z = 3;"))

	if err := c.Put(hash, CacheEntry{Path: "z.syn"}); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := c.Get(hash); ok {
		t.Error("entry survived DropAll")
	}
	// The cache stays usable after eviction.
	if err := c.Put(hash, CacheEntry{Path: "z.syn"}); err != nil {
		t.Fatalf("Put after DropAll: %v", err)
	}
}
