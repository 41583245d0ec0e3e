package core

import "time"

// Status is the derived state of a token. It is never stored as ground truth.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Token is a single credential entry registered for an external service.
type Token struct {
	// ID is assigned by the token service on creation and never changes.
	ID string `json:"id"`

	// ServiceName is a free-text label for the external service (e.g. "GitHub API").
	// It is not required to be unique.
	ServiceName string `json:"serviceName"`

	// Value is the credential itself. tokenkeep does not look inside it.
	Value string `json:"token"`

	// ExpiryDate is the instant after which the token counts as expired.
	ExpiryDate time.Time `json:"expiryDate"`

	// Status is computed from ExpiryDate at read time, see EvaluateStatus.
	Status Status `json:"status"`
}

// EvaluateStatus returns StatusExpired if expiry is at or before now, StatusActive otherwise.
func EvaluateStatus(expiry, now time.Time) Status {
	if expiry.After(now) {
		return StatusActive
	}
	return StatusExpired
}

// WithStatus returns a copy of the token with Status derived against now.
func (t Token) WithStatus(now time.Time) Token {
	t.Status = EvaluateStatus(t.ExpiryDate, now)
	return t
}

// IsExpired reports whether the token is expired at the given instant.
func (t Token) IsExpired(now time.Time) bool {
	return EvaluateStatus(t.ExpiryDate, now) == StatusExpired
}
