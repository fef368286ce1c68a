package models

import "time"

// RefreshToken is a stored opaque refresh token. Tokens are rotated on
// every refresh and revoked rather than deleted so reuse can be detected.
type RefreshToken struct {
	ID         int64     `json:"id" db:"id"`
	Token      string    `json:"token" db:"token"`
	UserID     int64     `json:"userId" db:"user_id"`
	ExpiryDate time.Time `json:"expiryDate" db:"expiry_date"`
	IsRevoked  bool      `json:"isRevoked" db:"is_revoked"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// IsExpired reports whether the token is past its expiry date
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiryDate)
}
