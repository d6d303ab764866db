package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscapeReservedCharacters(t *testing.T) {
	got := EscapeLaTeX("100% & {x}")
	require.Contains(t, got, `\%`)
	require.Contains(t, got, `\&`)
	require.Contains(t, got, `\{`)
	require.Contains(t, got, `\}`)
	require.Equal(t, `100\% \& \{x\}`, got)

	require.Equal(t, `\$ \# \_`, EscapeLaTeX("$ # _"))
	require.Equal(t, `\^{}`, EscapeLaTeX("^"))
	require.Equal(t, `\textasciitilde{}`, EscapeLaTeX("~"))
	require.Equal(t, `\textbackslash{}`, EscapeLaTeX(`\`))
}

func TestEscapeBackslashRunsFirst(t *testing.T) {
	// the braces inserted for the backslash must not themselves be escaped
	require.Equal(t, `\textbackslash{}\%`, EscapeLaTeX(`\%`))
}

func TestEscapeIsNotAFixedPoint(t *testing.T) {
	once := EscapeLaTeX("100%")
	twice := EscapeLaTeX(once)
	require.Equal(t, `100\%`, once)
	require.NotEqual(t, once, twice)
	require.Equal(t, `100\textbackslash{}\%`, twice)
}

func TestEscapeNewlines(t *testing.T) {
	require.Equal(t, `ligne un\par ligne deux`, EscapeLaTeX("ligne un\n\nligne deux"))
	require.Equal(t, "ligne un ligne deux", EscapeLaTeX("ligne un\nligne deux"))
	// CRLF normalizes like LF
	require.Equal(t, `a\par b`, EscapeLaTeX("a\r\n\r\nb"))
}

func TestAssembleContainsBodyAndLetterhead(t *testing.T) {
	meta := testMeta()
	src := Assemble("Acte de naissance", `corps du document`, meta)
	require.True(t, strings.HasPrefix(src, `\documentclass`))
	require.Contains(t, src, "corps du document")
	require.Contains(t, src, "Acte de naissance")
	require.Contains(t, src, "SOKODÉ")
	require.Contains(t, src, `\begin{document}`)
	require.Contains(t, src, `\end{document}`)
}
