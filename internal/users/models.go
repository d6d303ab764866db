package users

import (
	"time"

	"github.com/mairiedoc/mairiedoc/internal/archive"
)

// Role gates administrative operations (template editing, permanent deletes).
const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

// User is an application account. PasswordHash is a bcrypt hash and never
// serialized.
type User struct {
	ID           int64     `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Nom          string    `bson:"nom" json:"nom"`
	Prenom       string    `bson:"prenom" json:"prenom"`
	Role         string    `bson:"role" json:"role"`
	PasswordHash []byte    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`

	archive.Audit `bson:",inline"`
}
