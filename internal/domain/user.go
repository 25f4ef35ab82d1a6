package domain

import "time"

// UserAccount is a registered user. Email is the unique lookup key,
// compared case-insensitively.
//
// PasswordHash holds a bcrypt hash. The JSON name "senha" is kept for
// compatibility with the persisted layout, but values written by this
// implementation are never reversible.
type UserAccount struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	Email        string    `json:"email"`
	Phone        string    `json:"telefone"`
	PasswordHash string    `json:"senha"`
	RegisteredAt time.Time `json:"dataCadastro"`
}

// Session marks a logged-in user. It is a plain client-visible record with
// an absolute expiry, not a signed credential: the guard it feeds is a UX
// gate, not a security boundary.
//
// ExpiresAt is Unix milliseconds, matching the persisted wire value.
type Session struct {
	UserID    string `json:"id"`
	Name      string `json:"nome"`
	Email     string `json:"email"`
	Phone     string `json:"telefone"`
	ExpiresAt int64  `json:"expiracao"`
}

// Expired reports whether the session is no longer valid at now.
// A session is valid strictly before its expiry instant.
func (s Session) Expired(now time.Time) bool {
	return now.UnixMilli() >= s.ExpiresAt
}

// ResetToken is a short-lived password-reset token, stored keyed by email.
// ExpiresAt is Unix milliseconds.
type ResetToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiracao"`
}

// Expired reports whether the token is no longer usable at now.
func (t ResetToken) Expired(now time.Time) bool {
	return now.UnixMilli() > t.ExpiresAt
}
