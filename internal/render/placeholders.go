package render

import "strings"

// Placeholders returns the distinct placeholder names referenced by a
// template body, trimmed of surrounding whitespace, in first-occurrence
// order. Delimiters are literal "{{" and "}}" pairs with no nesting; an
// unterminated opener is ignored. Any inner text is accepted as a name.
func Placeholders(body string) []string {
	var names []string
	seen := map[string]bool{}
	for i := 0; i < len(body); {
		open := strings.Index(body[i:], "{{")
		if open < 0 {
			break
		}
		start := i + open + 2
		close := strings.Index(body[start:], "}}")
		if close < 0 {
			break
		}
		name := strings.TrimSpace(body[start : start+close])
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		i = start + close + 2
	}
	return names
}
