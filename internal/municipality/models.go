package municipality

import "time"

// Metadata is the single municipality record whose fields are addressable in
// templates under the reserved "mairie." namespace.
type Metadata struct {
	Ville       string    `json:"ville" bson:"ville"`
	Commune     string    `json:"commune" bson:"commune"`
	Region      string    `json:"region" bson:"region"`
	Prefecture  string    `json:"prefecture" bson:"prefecture"`
	NomMaire    string    `json:"nomMaire" bson:"nomMaire"`
	PrenomMaire string    `json:"prenomMaire" bson:"prenomMaire"`
	LogoKey     string    `json:"logoKey,omitempty" bson:"logoKey,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Field resolves a "mairie.<field>" reference. The logo is not addressable
// from template text.
func (m *Metadata) Field(name string) (string, bool) {
	switch name {
	case "ville":
		return m.Ville, true
	case "commune":
		return m.Commune, true
	case "region":
		return m.Region, true
	case "prefecture":
		return m.Prefecture, true
	case "nomMaire":
		return m.NomMaire, true
	case "prenomMaire":
		return m.PrenomMaire, true
	}
	return "", false
}
