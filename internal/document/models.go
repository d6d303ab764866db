package document

import (
	"time"

	"github.com/mairiedoc/mairiedoc/internal/archive"
	"github.com/mairiedoc/mairiedoc/internal/personne"
)

// Document is one generated act: a template reference plus the role bindings
// assigning persons to the template's placeholders.
type Document struct {
	ID         int64     `json:"id" bson:"id"`
	TemplateID int64     `json:"templateId" bson:"templateId"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`

	archive.Audit `bson:",inline"`
}

// RoleBinding assigns a person to one placeholder name ("fonction") within a
// document. The store does not enforce (document, fonction) uniqueness; the
// resolver takes the first match in creation order.
type RoleBinding struct {
	ID         int64     `json:"id" bson:"id"`
	DocumentID int64     `json:"documentId" bson:"documentId"`
	Fonction   string    `json:"fonction" bson:"fonction"`
	PersonneID int64     `json:"personneId" bson:"personneId"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`

	// Personne is the joined person record; nil when the reference is dangling.
	Personne *personne.Personne `json:"personne,omitempty" bson:"-"`
}
