// Package fuzztests houses Go fuzz harnesses that exercise the front
// half of the pipeline (source -> lexer -> parser). The goal is to
// smoke test robustness: lexing and parsing arbitrary bytes must never
// panic or hang, and every parse that succeeds must produce items with
// sane spans. The harnesses never assert on specific diagnostics.
package fuzztests
