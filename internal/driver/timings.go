package driver

import (
	"encoding/json"
	"fmt"
	"time"

	"synthizer/internal/diag"
)

// Phase names the pipeline stages a Timer can measure.
type Phase string

const (
	PhaseLoad  Phase = "load"
	PhaseLex   Phase = "lex"
	PhaseParse Phase = "parse"
	PhaseCheck Phase = "check"
)

// PhaseTiming is one measured stage, serialized into the timings
// diagnostic payload.
type PhaseTiming struct {
	Phase  Phase   `json:"phase"`
	Millis float64 `json:"ms"`
}

// Timer accumulates wall-clock durations per pipeline phase. It is not
// safe for concurrent use; CheckDir gives each worker its own.
type Timer struct {
	phases  []PhaseTiming
	current Phase
	started time.Time
}

func NewTimer() *Timer {
	return &Timer{}
}

// Begin starts measuring a phase, ending the previous one if still open.
func (t *Timer) Begin(p Phase) {
	t.End()
	t.current = p
	t.started = time.Now()
}

// End closes the currently open phase, if any.
func (t *Timer) End() {
	if t.current == "" {
		return
	}
	elapsed := time.Since(t.started)
	t.phases = append(t.phases, PhaseTiming{
		Phase:  t.current,
		Millis: float64(elapsed.Microseconds()) / 1000.0,
	})
	t.current = ""
}

// Report returns the finished phases in measurement order.
func (t *Timer) Report() []PhaseTiming {
	t.End()
	return t.phases
}

// Total sums all measured phases.
func (t *Timer) Total() float64 {
	var sum float64
	for _, p := range t.Report() {
		sum += p.Millis
	}
	return sum
}

// appendTimings attaches the measured phases to bag as an informational
// diagnostic with a machine-readable JSON note.
func appendTimings(bag *diag.Bag, t *Timer) {
	if bag == nil || t == nil {
		return
	}
	report := t.Report()
	if len(report) == 0 {
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		// The report is plain structs; a marshal failure means a bug.
		panic(fmt.Errorf("driver: marshal timings: %w", err))
	}
	bag.Add(diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  fmt.Sprintf("pipeline finished in %.3f ms", t.Total()),
		NoPos:    true,
		Notes:    []diag.Note{{Msg: string(payload)}},
	})
}
