package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"synthizer/internal/diag"
	"synthizer/internal/source"
)

// Pretty formats diagnostics for humans. It walks bag.Items() in order
// (callers sort the bag first when they care). Each diagnostic prints
// as
//
//	<path>:<line>:<col>: <SEV> [<CODE>]: <message>
//
// followed by the offending source line with a ^~~~ underline and then
// the notes, when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeading(w, &d, fs, opts)
		if opts.ShowPreview && !d.NoPos {
			writePreview(w, d.Primary, fs, opts)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				if n.Msg != "" {
					fmt.Fprintf(w, "  note: %s\n", n.Msg)
				}
				if opts.ShowPreview && n.Span != (source.Span{}) {
					writePreview(w, n.Span, fs, opts)
				}
			}
		}
	}
}

func writeHeading(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	path := formatPath(file.Path, opts.PathMode)

	sev := severityPainter(d.Severity, opts.Color)
	if d.NoPos {
		fmt.Fprintf(w, "%s: %s [%s]: %s\n",
			path, sev.Sprint(d.Severity.String()), d.Code.ID(), d.Message)
		return
	}

	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s [%s]: %s\n",
		path, start.Line, start.Col,
		sev.Sprint(d.Severity.String()), d.Code.ID(), d.Message)
}

// writePreview prints the first line the span touches with a caret
// underline. Multi-line spans underline to the end of the first line.
func writePreview(w io.Writer, sp source.Span, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	line := file.GetLine(start.Line)

	if opts.Width > 0 {
		line = runewidth.Truncate(line, opts.Width, "…")
	}

	gutter := fmt.Sprintf("%4d", start.Line)
	fmt.Fprintf(w, "%s | %s\n", gutter, line)

	// Columns are byte-based; display columns come from the rendered
	// width of the prefix so tabs and wide runes line up.
	prefix := sliceCols(file.GetLine(start.Line), start.Col-1)
	pad := runewidth.StringWidth(prefix)

	underCols := uint32(1)
	if end.Line == start.Line && end.Col > start.Col {
		underCols = end.Col - start.Col
	}
	marked := sliceCols(file.GetLine(start.Line)[len(prefix):], underCols)
	width := max(runewidth.StringWidth(marked), 1)

	underline := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		underline = color.New(color.FgHiRed, color.Bold).Sprint(underline)
	}
	fmt.Fprintf(w, "%s | %s%s\n", strings.Repeat(" ", len(gutter)), strings.Repeat(" ", pad), underline)
}

// sliceCols returns the prefix of s covering at most n bytes, cut at a
// rune boundary.
func sliceCols(s string, n uint32) string {
	if uint32(len(s)) <= n {
		return s
	}
	cut := int(n)
	for cut > 0 && cut < len(s) && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}

func severityPainter(sev diag.Severity, enabled bool) *color.Color {
	var c *color.Color
	switch sev {
	case diag.SevError:
		c = color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgCyan)
	}
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
