package render

import (
	"strings"

	"github.com/mairiedoc/mairiedoc/internal/document"
	"github.com/mairiedoc/mairiedoc/internal/municipality"
)

// Mode selects the output target of a substitution pass.
type Mode int

const (
	// ModeDisplay produces raw text for on-screen preview.
	ModeDisplay Mode = iota
	// ModeTypeset escapes every substituted value for LaTeX.
	ModeTypeset
)

// Substitute replaces every placeholder occurrence in body with its resolved
// value. Substitutions are independent: a substituted value is never
// re-scanned for further placeholders. Unresolved names substitute to the
// sentinel, which is escaped like any other value in typeset mode. In typeset
// mode the literal text between placeholders is escaped too, each segment
// exactly once, so template prose cannot inject raw markup. Malformed
// (unterminated) delimiters are copied through (escaped in typeset mode).
func Substitute(body string, bindings []document.RoleBinding, meta *municipality.Metadata, mode Mode) string {
	var b strings.Builder
	b.Grow(len(body))
	emit := func(s string) {
		if mode == ModeTypeset {
			s = EscapeLaTeX(s)
		}
		b.WriteString(s)
	}
	for i := 0; i < len(body); {
		open := strings.Index(body[i:], "{{")
		if open < 0 {
			emit(body[i:])
			break
		}
		start := i + open + 2
		close := strings.Index(body[start:], "}}")
		if close < 0 {
			emit(body[i:])
			break
		}
		emit(body[i : i+open])
		name := strings.TrimSpace(body[start : start+close])
		value := Resolve(name, bindings, meta)
		if mode == ModeTypeset {
			value = EscapeLaTeX(value)
		}
		b.WriteString(value)
		i = start + close + 2
	}
	return b.String()
}
