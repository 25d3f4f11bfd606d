// Package project locates and reads the synth.toml manifest that
// carries project defaults for the CLI.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the project root is identified by.
const ManifestName = "synth.toml"

// Defaults used for manifest fields left unset.
const (
	DefaultEntrypoint = "main"
	DefaultMain       = "main.syn"
	DefaultSampleRate = 44100
	DefaultLength     = 1.0
)

// Manifest is the parsed synth.toml.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Synth   SynthSection   `toml:"synth"`
}

// PackageSection names the project.
type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// SynthSection holds evaluation defaults: which function to treat as
// the entry point and how to sample it.
type SynthSection struct {
	// Entrypoint is the function name the check and eval commands
	// resolve.
	Entrypoint string `toml:"entrypoint"`
	// Main is the source file eval compiles.
	Main string `toml:"main"`
	// SampleRate in samples per second.
	SampleRate int `toml:"sample_rate"`
	// Length of the rendered range, in seconds.
	Length float64 `toml:"length_seconds"`
}

// Load reads and validates a manifest, filling unset fields with
// defaults.
func Load(path string) (Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if m.Synth.Entrypoint == "" {
		m.Synth.Entrypoint = DefaultEntrypoint
	}
	if m.Synth.Main == "" {
		m.Synth.Main = DefaultMain
	}
	if m.Synth.SampleRate == 0 {
		m.Synth.SampleRate = DefaultSampleRate
	}
	if m.Synth.SampleRate < 0 {
		return Manifest{}, fmt.Errorf("%s: sample_rate must be positive, got %d", path, m.Synth.SampleRate)
	}
	if m.Synth.Length == 0 {
		m.Synth.Length = DefaultLength
	}
	if m.Synth.Length < 0 {
		return Manifest{}, fmt.Errorf("%s: length_seconds must not be negative, got %g", path, m.Synth.Length)
	}
	return m, nil
}

// FindManifest walks up from startDir to locate synth.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot returns the directory containing synth.toml, if any.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifestPath), true, nil
}

// DefaultManifest renders the starter synth.toml for a new project.
func DefaultManifest(name string) string {
	return fmt.Sprintf(`# synthizer project manifest
[package]
name = "%s"
version = "0.1.0"

[synth]
entrypoint = "%s"
main = "%s"
sample_rate = %d
length_seconds = %g
`, name, DefaultEntrypoint, DefaultMain, DefaultSampleRate, DefaultLength)
}

// DefaultMainSource is the starter program written by `synthizer init`:
// a 220 Hz sawtooth in [-1, 1).
func DefaultMainSource() string {
	return `// starter patch: a plain sawtooth
freq = 220;

[main t] {
    + t * freq % 1 * 2 - 1;
}
`
}
