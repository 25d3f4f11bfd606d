package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"synthizer/internal/driver"
	"synthizer/internal/project"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] path",
	Short: "Type-check synthizer sources",
	Long: `Check runs the full front end (lex, parse, type check) over a file,
or over every *.syn file under a directory in parallel.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("entry", "", "entry point to validate (default from synth.toml)")
	checkCmd.Flags().String("ui", "auto", "progress UI for directory checks (auto|on|off)")
	checkCmd.Flags().Int("jobs", 0, "parallel workers for directory checks (0 = all CPUs)")
	checkCmd.Flags().Bool("cache", true, "reuse cached results for unchanged files")
}

func runCheck(cmd *cobra.Command, args []string) error {
	flags, err := readRootFlags(cmd)
	if err != nil {
		return err
	}
	entry, err := cmd.Flags().GetString("entry")
	if err != nil {
		return fmt.Errorf("failed to get entry flag: %w", err)
	}
	if entry == "" {
		// Fall back to the project manifest when one is in reach.
		if manifestPath, ok, _ := project.FindManifest(args[0]); ok {
			if m, err := project.Load(manifestPath); err == nil {
				entry = m.Synth.Entrypoint
			}
		}
	}

	target := args[0]
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat %s: %w", target, err)
	}
	if info.IsDir() {
		return checkDirectory(cmd, target, entry, flags)
	}
	return checkSingle(target, entry, flags)
}

func checkSingle(path, entry string, flags rootFlags) error {
	result, err := driver.Check(path, driver.Options{
		MaxDiagnostics: flags.maxDiagnostics,
		Entrypoint:     entry,
		Timings:        flags.timings,
	})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if printDiagnostics(result.Bag, result.FileSet, flags) {
		return fmt.Errorf("%d error(s) in %s", errorCount(result.Bag), path)
	}
	fmt.Fprintf(os.Stdout, "%s: ok\n", path)
	return nil
}

func checkDirectory(cmd *cobra.Command, dir, entry string, flags rootFlags) error {
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}

	opts := driver.DirOptions{
		Options: driver.Options{
			MaxDiagnostics: flags.maxDiagnostics,
			Entrypoint:     entry,
			Timings:        flags.timings,
		},
		Jobs: jobs,
	}
	if useCache {
		cache, err := driver.OpenDiskCache()
		if err != nil {
			// A broken cache dir should not block the check itself.
			fmt.Fprintf(os.Stderr, "warning: %v, checking without cache\n", err)
		} else {
			opts.Cache = cache
		}
	}

	var results []driver.FileResult
	if shouldUseTUI(mode) {
		results, err = checkDirWithUI(cmd.Context(), dir, opts)
	} else {
		results, err = driver.CheckDir(cmd.Context(), dir, opts)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.FileSet == nil {
			// The file never loaded; its bag has the I/O diagnostic
			// but no content to resolve spans against.
			for _, d := range res.Bag.Items() {
				fmt.Fprintf(os.Stderr, "%s: %s [%s]: %s\n",
					res.Path, d.Severity, d.Code.ID(), d.Message)
			}
			failed++
			continue
		}
		if printDiagnostics(res.Bag, res.FileSet, flags) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
	}
	fmt.Fprintf(os.Stdout, "%d file(s) ok\n", len(results))
	return nil
}

func checkDirWithUI(ctx context.Context, dir string, opts driver.DirOptions) ([]driver.FileResult, error) {
	files, err := driver.ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	return runCheckWithUI(ctx, fmt.Sprintf("checking %s", dir), files, dir, opts)
}
