package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"synthizer/internal/diag"
	"synthizer/internal/diagfmt"
	"synthizer/internal/source"
)

// rootFlags bundles the persistent flags every command reads.
type rootFlags struct {
	useColor       bool
	timings        bool
	maxDiagnostics int
}

func readRootFlags(cmd *cobra.Command) (rootFlags, error) {
	flags := cmd.Root().PersistentFlags()

	colorMode, err := flags.GetString("color")
	if err != nil {
		return rootFlags{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := resolveColorMode(colorMode)
	if err != nil {
		return rootFlags{}, err
	}

	timings, err := flags.GetBool("timings")
	if err != nil {
		return rootFlags{}, fmt.Errorf("failed to get timings flag: %w", err)
	}

	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return rootFlags{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	return rootFlags{
		useColor:       useColor,
		timings:        timings,
		maxDiagnostics: maxDiagnostics,
	}, nil
}

func resolveColorMode(value string) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(os.Stderr), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// printDiagnostics renders a sorted bag to stderr and reports whether
// it held errors.
func printDiagnostics(bag *diag.Bag, fs *source.FileSet, flags rootFlags) bool {
	if bag.Len() == 0 {
		return false
	}
	bag.Sort()
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:       flags.useColor,
		ShowNotes:   true,
		ShowPreview: true,
	})
	return bag.HasErrors()
}

func errorCount(bag *diag.Bag) int {
	count := 0
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			count++
		}
	}
	return count
}
