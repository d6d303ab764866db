package render

import (
	"strings"

	"github.com/mairiedoc/mairiedoc/internal/document"
	"github.com/mairiedoc/mairiedoc/internal/municipality"
)

// Sentinel is substituted whenever a placeholder cannot be resolved. The
// render never fails on an unbound name; the document is produced with the
// sentinel in place.
const Sentinel = "---"

// mairiePrefix is the reserved namespace for municipality metadata fields.
const mairiePrefix = "mairie."

// Resolve produces the substitution value for one placeholder name.
// Resolution order, first match wins:
//  1. "mairie.<field>" -> municipality metadata field
//  2. a role binding whose fonction equals the full name (first match in
//     creation order); a name with an embedded "." projects a person field,
//     otherwise the value is "prenom nom"
//  3. sentinel
//
// Pure and deterministic: the same inputs always yield the same value.
func Resolve(name string, bindings []document.RoleBinding, meta *municipality.Metadata) string {
	if field, ok := strings.CutPrefix(name, mairiePrefix); ok {
		if meta != nil {
			if v, ok := meta.Field(field); ok {
				return v
			}
		}
		return Sentinel
	}

	for _, b := range bindings {
		if b.Fonction != name || b.Personne == nil {
			continue
		}
		if _, field, ok := strings.Cut(name, "."); ok {
			if v, ok := b.Personne.Field(field); ok {
				return v
			}
			return Sentinel
		}
		return b.Personne.FullName()
	}
	return Sentinel
}
