package token

var keywords = map[string]Kind{
	"if":   KwIf,
	"else": KwElse,
}

// LookupKeyword returns the keyword kind for an identifier lexeme.
// Keywords are matched before the generic identifier pattern, so they
// never reach the interner.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
