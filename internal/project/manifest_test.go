package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"synthizer/internal/driver"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[package]\nname = \"pad\"\n")

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Package.Name != "pad" {
		t.Errorf("name = %q, want %q", m.Package.Name, "pad")
	}
	if m.Synth.Entrypoint != DefaultEntrypoint {
		t.Errorf("entrypoint = %q, want %q", m.Synth.Entrypoint, DefaultEntrypoint)
	}
	if m.Synth.Main != DefaultMain {
		t.Errorf("main = %q, want %q", m.Synth.Main, DefaultMain)
	}
	if m.Synth.SampleRate != DefaultSampleRate {
		t.Errorf("sample_rate = %d, want %d", m.Synth.SampleRate, DefaultSampleRate)
	}
	if m.Synth.Length != DefaultLength {
		t.Errorf("length_seconds = %g, want %g", m.Synth.Length, DefaultLength)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `[package]
name = "lead"
version = "1.2.3"

[synth]
entrypoint = "voice"
main = "lead.syn"
sample_rate = 48000
length_seconds = 2.5
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Synth.Entrypoint != "voice" || m.Synth.Main != "lead.syn" {
		t.Errorf("synth section mangled: %+v", m.Synth)
	}
	if m.Synth.SampleRate != 48000 || m.Synth.Length != 2.5 {
		t.Errorf("numeric fields mangled: %+v", m.Synth)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"negative rate", "[synth]\nsample_rate = -1\n", "sample_rate must be positive"},
		{"negative length", "[synth]\nlength_seconds = -0.5\n", "length_seconds must not be negative"},
		{"malformed toml", "[synth\n", "failed to parse TOML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "voices", "pads")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := writeManifest(t, root, "[package]\nname = \"x\"\n")

	got, ok, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if !ok {
		t.Fatal("manifest not found")
	}
	if got != want {
		t.Errorf("found %q, want %q", got, want)
	}

	dir, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot = (%v, %v)", ok, err)
	}
	if dir != root {
		t.Errorf("root = %q, want %q", dir, root)
	}
}

func TestFindManifestMiss(t *testing.T) {
	// An isolated temp dir has no synth.toml anywhere up its chain,
	// unless the environment happens to place one there.
	_, ok, err := FindManifest(t.TempDir())
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if ok {
		t.Skip("unrelated synth.toml above the temp dir")
	}
}

func TestDefaultManifestLoads(t *testing.T) {
	path := writeManifest(t, t.TempDir(), DefaultManifest("demo"))

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Package.Name != "demo" {
		t.Errorf("name = %q, want %q", m.Package.Name, "demo")
	}
	if m.Synth.Entrypoint != DefaultEntrypoint {
		t.Errorf("entrypoint = %q, want %q", m.Synth.Entrypoint, DefaultEntrypoint)
	}
}

func TestDefaultMainSourceChecksClean(t *testing.T) {
	res := driver.CheckSource(DefaultMain, []byte(DefaultMainSource()),
		driver.Options{Entrypoint: DefaultEntrypoint})

	if res.Bag.HasErrors() {
		t.Fatalf("starter program has errors: %v", res.Bag.Items())
	}
	if res.Entry == nil {
		t.Fatal("starter program has no entry point")
	}

	samples, err := driver.Render(res.Entry, 8, 0.5)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i, v := range samples.Values {
		if v < -1 || v >= 1 {
			t.Errorf("sample %d = %g, outside [-1, 1)", i, v)
		}
	}
}
