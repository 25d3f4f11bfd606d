package diag

// Reporter is the minimal contract through which phases emit
// diagnostics. The whole Diagnostic travels through so flags like
// NoPos survive into storage. Implementations: BagReporter (stores
// into a Bag), NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter forwards every report into *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter drops every report.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
