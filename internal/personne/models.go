package personne

import (
	"time"

	"github.com/mairiedoc/mairiedoc/internal/archive"
)

// Personne is a registered inhabitant that can be bound to a template
// placeholder (witness, declarant, officer, ...).
type Personne struct {
	ID            int64     `json:"id" bson:"id"`
	Nom           string    `json:"nom" bson:"nom"`
	Prenom        string    `json:"prenom" bson:"prenom"`
	Sexe          string    `json:"sexe,omitempty" bson:"sexe,omitempty"`
	DateNaissance string    `json:"dateNaissance,omitempty" bson:"dateNaissance,omitempty"`
	LieuNaissance string    `json:"lieuNaissance,omitempty" bson:"lieuNaissance,omitempty"`
	Nationalite   string    `json:"nationalite,omitempty" bson:"nationalite,omitempty"`
	Profession    string    `json:"profession,omitempty" bson:"profession,omitempty"`
	Adresse       string    `json:"adresse,omitempty" bson:"adresse,omitempty"`
	Telephone     string    `json:"telephone,omitempty" bson:"telephone,omitempty"`
	NumeroCni     string    `json:"numeroCni,omitempty" bson:"numeroCni,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`

	archive.Audit `bson:",inline"`
}

// FullName is the default substitution value for a binding without a field
// suffix: "prenom nom".
func (p *Personne) FullName() string {
	return p.Prenom + " " + p.Nom
}

// Field returns the value of the named attribute as addressed from a
// placeholder suffix (e.g. "directeur.profession" -> Field("profession")).
func (p *Personne) Field(name string) (string, bool) {
	switch name {
	case "nom":
		return p.Nom, true
	case "prenom":
		return p.Prenom, true
	case "sexe":
		return p.Sexe, true
	case "dateNaissance":
		return p.DateNaissance, true
	case "lieuNaissance":
		return p.LieuNaissance, true
	case "nationalite":
		return p.Nationalite, true
	case "profession":
		return p.Profession, true
	case "adresse":
		return p.Adresse, true
	case "telephone":
		return p.Telephone, true
	case "numeroCni":
		return p.NumeroCni, true
	}
	return "", false
}
