package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/darmiel/tokenkeep/internal/core"
)

// expiryLayouts are tried in order. Inputs without a zone are read as UTC.
var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseExpiry parses an ISO 8601 expiry date.
func ParseExpiry(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &core.ValidationError{
		Field:  "expiryDate",
		Reason: "must be a valid ISO 8601 date",
	}
}

// RequireFields returns a ValidationError naming every empty field.
// Fields are given as name/value pairs.
func RequireFields(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &core.ValidationError{
		Reason: fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
	}
}

// whereEnv describes the variables available in a where expression.
func whereEnv(t core.Token, now time.Time) map[string]any {
	return map[string]any{
		"id":          t.ID,
		"serviceName": t.ServiceName,
		"token":       t.Value,
		"status":      string(t.Status),
		"expiryDate":  t.ExpiryDate,
		"now":         now,
	}
}

// Where is a compiled boolean filter expression over a token.
type Where struct {
	Source  string
	program *vm.Program
}

// CompileWhere compiles a where expression, e.g.
//
//	status == "active" && expiryDate < now + duration("720h")
func CompileWhere(src string) (*Where, error) {
	out, err := expr.Compile(src, expr.Env(whereEnv(core.Token{}, time.Time{})), expr.AsBool())
	if err != nil {
		return nil, &core.ValidationError{
			Field:  "where",
			Reason: err.Error(),
		}
	}
	return &Where{Source: src, program: out}, nil
}

// Match evaluates the expression for a token. Runtime errors count as no match.
func (w *Where) Match(t core.Token, now time.Time) (bool, error) {
	res, err := expr.Run(w.program, whereEnv(t, now))
	if err != nil {
		return false, fmt.Errorf("evaluating where expression: %w", err)
	}
	ok, _ := res.(bool)
	return ok, nil
}
