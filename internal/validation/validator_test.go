package validation

import (
	"testing"
	"time"

	"github.com/darmiel/tokenkeep/internal/core"
)

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "RFC3339 UTC",
			input: "2099-01-01T00:00:00Z",
			want:  time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "JavaScript toISOString",
			input: "2026-03-15T00:00:00.000Z",
			want:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "With Offset",
			input: "2026-03-15T02:00:00+02:00",
			want:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "Date Only",
			input: "2026-03-15",
			want:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "Datetime Local Input",
			input: "2026-03-15T10:30",
			want:  time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{name: "Garbage", input: "next tuesday", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
		{name: "Invalid Month", input: "2026-13-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpiry(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseExpiry(%q) expected error, got %v", tt.input, got)
				}
				if !core.IsValidation(err) {
					t.Errorf("ParseExpiry(%q) error is not a ValidationError: %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExpiry(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseExpiry(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRequireFields(t *testing.T) {
	if err := RequireFields("serviceName", "GitHub", "token", "x"); err != nil {
		t.Errorf("RequireFields() unexpected error: %v", err)
	}

	err := RequireFields("serviceName", "  ", "token", "x", "expiryDate", "")
	if err == nil {
		t.Fatal("RequireFields() expected error, got nil")
	}
	if got, want := err.Error(), "missing required fields: serviceName, expiryDate"; got != want {
		t.Errorf("RequireFields() = %q, want %q", got, want)
	}
}

func TestWhere(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := core.Token{
		ID:          "1",
		ServiceName: "GitHub API",
		Value:       "ghp_abc",
		ExpiryDate:  now.Add(24 * time.Hour),
		Status:      core.StatusActive,
	}

	tests := []struct {
		name string
		src  string
		want bool
	}{
		{name: "Status Match", src: `status == "active"`, want: true},
		{name: "Status Mismatch", src: `status == "expired"`, want: false},
		{name: "Prefix", src: `serviceName startsWith "Git"`, want: true},
		{name: "Expires Soon", src: `expiryDate < now + duration("48h")`, want: true},
		{name: "Expires Later", src: `expiryDate > now + duration("48h")`, want: false},
		{name: "Token Contains", src: `token contains "abc" && id == "1"`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := CompileWhere(tt.src)
			if err != nil {
				t.Fatalf("CompileWhere(%q) unexpected error: %v", tt.src, err)
			}
			got, err := w.Match(tok, now)
			if err != nil {
				t.Fatalf("Match() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompileWhere_Invalid(t *testing.T) {
	for _, src := range []string{
		`status ==`,        // syntax error
		`serviceName`,      // not a bool
		`unknownField > 1`, // unknown variable
	} {
		if _, err := CompileWhere(src); err == nil {
			t.Errorf("CompileWhere(%q) expected error, got nil", src)
		} else if !core.IsValidation(err) {
			t.Errorf("CompileWhere(%q) error is not a ValidationError: %v", src, err)
		}
	}
}
