package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"synthizer/internal/driver"
	"synthizer/internal/project"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] [file.syn]",
	Short: "Compile and sample the entry point",
	Long: `Eval compiles a source file, resolves the entry point and samples it
over [0, length) at the configured sample rate, printing one value per
line. Defaults come from synth.toml when the file argument is omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("entry", "", "entry point function (default from synth.toml)")
	evalCmd.Flags().Int("rate", 0, "sample rate in Hz (default from synth.toml)")
	evalCmd.Flags().Float64("length", -1, "render length in seconds (default from synth.toml)")
	evalCmd.Flags().Int("head", 0, "print only the first N samples (0 = all)")
}

func runEval(cmd *cobra.Command, args []string) error {
	flags, err := readRootFlags(cmd)
	if err != nil {
		return err
	}

	// Manifest defaults, overridable per flag.
	entry := project.DefaultEntrypoint
	rate := project.DefaultSampleRate
	length := project.DefaultLength
	mainFile := ""

	startDir := "."
	if len(args) == 1 {
		startDir = filepath.Dir(args[0])
	}
	if manifestPath, ok, _ := project.FindManifest(startDir); ok {
		m, err := project.Load(manifestPath)
		if err != nil {
			return err
		}
		entry = m.Synth.Entrypoint
		rate = m.Synth.SampleRate
		length = m.Synth.Length
		mainFile = filepath.Join(filepath.Dir(manifestPath), m.Synth.Main)
	}

	if len(args) == 1 {
		mainFile = args[0]
	}
	if mainFile == "" {
		return fmt.Errorf("no source file given and no %s found", project.ManifestName)
	}
	if v, err := cmd.Flags().GetString("entry"); err == nil && v != "" {
		entry = v
	}
	if v, err := cmd.Flags().GetInt("rate"); err == nil && v != 0 {
		rate = v
	}
	if v, err := cmd.Flags().GetFloat64("length"); err == nil && v >= 0 {
		length = v
	}
	head, err := cmd.Flags().GetInt("head")
	if err != nil {
		return fmt.Errorf("failed to get head flag: %w", err)
	}

	result, err := driver.Check(mainFile, driver.Options{
		MaxDiagnostics: flags.maxDiagnostics,
		Entrypoint:     entry,
		Timings:        flags.timings,
	})
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	if printDiagnostics(result.Bag, result.FileSet, flags) {
		return fmt.Errorf("%d error(s) in %s", errorCount(result.Bag), mainFile)
	}

	samples, err := driver.Render(result.Entry, rate, length)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for i, v := range samples.Values {
		if head > 0 && i >= head {
			break
		}
		fmt.Fprintf(out, "%g\n", v)
	}
	return nil
}
