package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"synthizer/internal/source"
	"synthizer/internal/token"
)

// TokenOutput is one token in the JSON dump.
type TokenOutput struct {
	Kind  string      `json:"kind"`
	Text  string      `json:"text,omitempty"`
	Value float64     `json:"value,omitempty"`
	Span  source.Span `json:"span"`
}

// FormatTokensPretty writes a numbered human-readable token dump.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) {
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)

		fmt.Fprintf(w, "%3d: %-12s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		if tok.Kind == token.NumLit {
			fmt.Fprintf(w, " (%g)", tok.Value)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n",
			start.Line, start.Col, end.Line, end.Col)

		if tok.Kind == token.EOF {
			break
		}
	}
}

// FormatTokensJSON writes the token stream as a JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Span: tok.Span,
		}
		if tok.Kind == token.NumLit {
			out.Value = tok.Value
		}
		output = append(output, out)

		if tok.Kind == token.EOF {
			break
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
