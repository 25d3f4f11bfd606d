package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"synthizer/internal/driver"
	"synthizer/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

type checkOutcome struct {
	results []driver.FileResult
	err     error
}

// runCheckWithUI drives CheckDir under a Bubble Tea progress view: the
// check runs in a goroutine feeding file events into the model, and
// the terminal shows per-file status until both finish.
func runCheckWithUI(ctx context.Context, title string, files []string, dir string, opts driver.DirOptions) ([]driver.FileResult, error) {
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	optsCopy := opts
	optsCopy.OnFile = func(res driver.FileResult, done, total int) {
		events <- ui.Event{
			Path:   res.Path,
			Done:   done,
			Total:  total,
			Failed: res.Bag.HasErrors(),
			Cached: res.Cached,
		}
	}

	go func() {
		results, err := driver.CheckDir(ctx, dir, optsCopy)
		outcomeCh <- checkOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
