package render

import (
	"fmt"
	"strings"

	"github.com/mairiedoc/mairiedoc/internal/municipality"
)

// documentShell is the fixed boilerplate around the substituted body. The
// header repeats the administrative hierarchy the way official acts are
// letterheaded; the body slot receives already-escaped content.
const documentShell = `\documentclass[12pt,a4paper]{article}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}
\usepackage[french]{babel}
\usepackage[margin=2.5cm]{geometry}
\usepackage{graphicx}
\pagestyle{empty}
\begin{document}
\begin{center}
{\scshape %s}\\[0.2em]
{\small R\'egion %s --- Pr\'efecture %s}\\[0.2em]
{\small Commune %s}\\[1.5em]
{\Large\bfseries %s}\\[2em]
\end{center}
%s
\vspace{3em}
\begin{flushright}
Fait à %s\\[0.5em]
Le Maire, %s %s
\end{flushright}
\end{document}
`

// Assemble builds the complete LaTeX source for a document: letterhead from
// the municipality metadata, title, then the escaped substituted body.
func Assemble(title, body string, meta *municipality.Metadata) string {
	if meta == nil {
		meta = &municipality.Metadata{}
	}
	return fmt.Sprintf(documentShell,
		EscapeLaTeX(strings.ToUpper(meta.Ville)),
		EscapeLaTeX(meta.Region),
		EscapeLaTeX(meta.Prefecture),
		EscapeLaTeX(meta.Commune),
		EscapeLaTeX(title),
		body,
		EscapeLaTeX(meta.Ville),
		EscapeLaTeX(meta.PrenomMaire),
		EscapeLaTeX(meta.NomMaire),
	)
}
