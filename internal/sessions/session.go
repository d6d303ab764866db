package sessions

import "time"

// Session is a refresh-token session for one user.
type Session struct {
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	UserID       int64     `bson:"userId" json:"userId"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
}
