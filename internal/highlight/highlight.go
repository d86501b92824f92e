// Package highlight wraps chroma as the syntax provider. The token stream
// it returns is advisory: callers consume it opaquely and never depend on
// it for correctness.
package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Parse tokenises text for the given language id. A language with no lexer
// falls back to the catch-all lexer; a tokenise failure returns nil.
func Parse(languageID, text string) []chroma.Token {
	lexer := lexers.Get(languageID)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil
	}
	return it.Tokens()
}

// Supported reports whether a dedicated lexer exists for the language id.
func Supported(languageID string) bool {
	return lexers.Get(languageID) != nil
}
