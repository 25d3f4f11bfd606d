package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.syn", []byte("a = 1;\nbb = 2;\n"))

	tests := []struct {
		name       string
		span       Span
		start, end LineCol
	}{
		{"first byte", Span{File: id, Start: 0, End: 1}, LineCol{1, 1}, LineCol{1, 2}},
		{"mid first line", Span{File: id, Start: 4, End: 5}, LineCol{1, 5}, LineCol{1, 6}},
		{"second line", Span{File: id, Start: 7, End: 9}, LineCol{2, 1}, LineCol{2, 3}},
		{"across lines", Span{File: id, Start: 4, End: 9}, LineCol{1, 5}, LineCol{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := fs.Resolve(tt.span)
			if start != tt.start || end != tt.end {
				t.Errorf("Resolve = %v-%v, want %v-%v", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.syn", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "third"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestLoadNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crlf.syn")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a = 1;\r\nb = 2;\r\n")...)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)

	if string(f.Content) != "a = 1;\nb = 2;\n" {
		t.Errorf("content not normalized: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 {
		t.Error("BOM flag not set")
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("CRLF flag not set")
	}
	if f.Flags&FileVirtual != 0 {
		t.Error("disk file marked virtual")
	}
}

func TestHashChangesWithContent(t *testing.T) {
	fs := NewFileSet()
	a := fs.Get(fs.AddVirtual("a.syn", []byte("x = 1;")))
	b := fs.Get(fs.AddVirtual("b.syn", []byte("x = 2;")))
	c := fs.Get(fs.AddVirtual("c.syn", []byte("x = 1;")))

	if a.Hash == b.Hash {
		t.Error("different contents share a hash")
	}
	if a.Hash != c.Hash {
		t.Error("identical contents have distinct hashes")
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()

	a := in.Intern("freq")
	b := in.Intern("gain")
	if a == b {
		t.Error("distinct strings share an ID")
	}
	if again := in.Intern("freq"); again != a {
		t.Errorf("re-intern returned %v, want %v", again, a)
	}
	if got := in.MustLookup(a); got != "freq" {
		t.Errorf("MustLookup = %q, want %q", got, "freq")
	}
	if id := in.InternBytes([]byte("gain")); id != b {
		t.Errorf("InternBytes returned %v, want %v", id, b)
	}
	if _, ok := in.Lookup(StringID(999)); ok {
		t.Error("Lookup of an unknown ID succeeded")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 0, Start: 4, End: 9}
	b := Span{File: 0, Start: 1, End: 6}

	got := a.Cover(b)
	want := Span{File: 0, Start: 1, End: 9}
	if got != want {
		t.Errorf("Cover = %v, want %v", got, want)
	}
	if a.Len() != 5 {
		t.Errorf("Len = %d, want 5", a.Len())
	}
}
