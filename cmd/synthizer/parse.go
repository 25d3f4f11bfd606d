package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"synthizer/internal/diagfmt"
	"synthizer/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.syn",
	Short: "Parse a synthizer source file",
	Long:  `Parse builds the syntax tree of a synthizer source file and prints it`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|none)")
}

func runParse(cmd *cobra.Command, args []string) error {
	flags, err := readRootFlags(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	result, err := driver.Check(args[0], driver.Options{
		MaxDiagnostics: flags.maxDiagnostics,
		Timings:        flags.timings,
	})
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	hadErrors := printDiagnostics(result.Bag, result.FileSet, flags)

	switch format {
	case "tree":
		if !hadErrors {
			diagfmt.WriteRootTree(os.Stdout, result.Root, result.Interner, result.FileSet)
		}
	case "none":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if hadErrors {
		return fmt.Errorf("%d error(s) while parsing %s", errorCount(result.Bag), args[0])
	}
	return nil
}
