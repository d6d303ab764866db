package template

import (
	"time"

	"github.com/mairiedoc/mairiedoc/internal/archive"
)

// Template is a reusable document body containing {{name}} placeholders.
// NomDocument is the unique human-readable label ("Acte de naissance", ...).
type Template struct {
	ID          int64     `json:"id" bson:"id"`
	NomDocument string    `json:"nomDocument" bson:"nomDocument"`
	Body        string    `json:"body" bson:"body"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`

	archive.Audit `bson:",inline"`
}
