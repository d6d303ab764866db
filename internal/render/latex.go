package render

import "strings"

// EscapeLaTeX makes a raw value safe to embed in the LaTeX source fed to the
// compiler. The input is walked once, so escape sequences inserted for one
// character are never re-escaped while handling the next. A double newline
// becomes a paragraph break; any remaining single newline becomes a space.
// Escaping is not a fixed point: escaping an already-escaped string
// double-escapes it.
func EscapeLaTeX(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\textbackslash{}`)
		case '{':
			b.WriteString(`\{`)
		case '}':
			b.WriteString(`\}`)
		case '$', '&', '%', '#', '_':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '^':
			b.WriteString(`\^{}`)
		case '~':
			b.WriteString(`\textasciitilde{}`)
		case '\n':
			if i+1 < len(s) && s[i+1] == '\n' {
				b.WriteString(`\par `)
				i++
			} else {
				b.WriteByte(' ')
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
