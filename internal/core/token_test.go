package core

import (
	"testing"
	"time"
)

func TestEvaluateStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   Status
	}{
		{
			name:   "Future Expiry",
			expiry: now.Add(time.Second),
			want:   StatusActive,
		},
		{
			name:   "Past Expiry",
			expiry: now.Add(-time.Second),
			want:   StatusExpired,
		},
		{
			name:   "Exactly Now Is Expired",
			expiry: now,
			want:   StatusExpired,
		},
		{
			name:   "Same Instant Other Location",
			expiry: now.In(time.FixedZone("UTC+2", 2*60*60)),
			want:   StatusExpired,
		},
		{
			name:   "Far Future",
			expiry: time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
			want:   StatusActive,
		},
		{
			name:   "Zero Time",
			expiry: time.Time{},
			want:   StatusExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateStatus(tt.expiry, now); got != tt.want {
				t.Errorf("EvaluateStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToken_WithStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tok := Token{
		ID:          "1",
		ServiceName: "GitHub API",
		ExpiryDate:  now.Add(-time.Hour),
		Status:      StatusActive, // stale on purpose
	}

	got := tok.WithStatus(now)
	if got.Status != StatusExpired {
		t.Errorf("WithStatus() status = %v, want %v", got.Status, StatusExpired)
	}
	if tok.Status != StatusActive {
		t.Errorf("WithStatus() mutated the receiver")
	}
	if !got.IsExpired(now) {
		t.Errorf("IsExpired() = false, want true")
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "expiryDate", Reason: "must be a valid ISO 8601 date"}
	if got, want := err.Error(), "expiryDate: must be a valid ISO 8601 date"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !IsValidation(err) {
		t.Errorf("IsValidation() = false, want true")
	}
	if IsValidation(ErrNotFound) {
		t.Errorf("IsValidation(ErrNotFound) = true, want false")
	}
}
