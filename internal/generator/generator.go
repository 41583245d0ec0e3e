// Package generator produces synthetic credential strings for demo data and renewals.
//
// The output only looks like a real credential of the named service. It is NOT suitable
// as a secret: the random source is math/rand and the charset is small.
package generator

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
)

const (
	// DefaultLength is the length of the random part appended to the prefix.
	DefaultLength = 32

	// DefaultPrefix is used when no known service key matches.
	DefaultPrefix = "tok_"

	charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// ServicePrefixes maps a lowercase service key to the prefix its tokens usually carry.
var ServicePrefixes = map[string]string{
	"github":       "ghp_",
	"aws":          "AKIA",
	"stripe":       "sk_live_",
	"sendgrid":     "SG.",
	"google":       "ya29.",
	"vercel":       "vercel_",
	"auth0":        "auth0_pk_live_",
	"twilio":       "AC",
	"mongodb":      "mongodb+srv://",
	"supabase":     "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.",
	"heroku":       "heroku_",
	"digitalocean": "do_",
	"cloudflare":   "cf_",
	"firebase":     "firebase_",
	"netlify":      "netlify_",
	"railway":      "railway_",
	"render":       "render_",
	"planetscale":  "pscale_",
	"upstash":      "upstash_",
	"algolia":      "algolia_",
}

type Generator struct {
	length   int
	fallback string
	prefixes map[string]string
	keys     []string

	mu  sync.Mutex
	rnd *rand.Rand
}

type Option func(*Generator)

// WithLength overrides the length of the random suffix.
func WithLength(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.length = n
		}
	}
}

// WithSource makes the generator draw from the given source, mainly for tests.
func WithSource(src rand.Source) Option {
	return func(g *Generator) {
		g.rnd = rand.New(src)
	}
}

// WithPrefixes replaces the prefix table.
func WithPrefixes(prefixes map[string]string, fallback string) Option {
	return func(g *Generator) {
		g.prefixes = prefixes
		g.fallback = fallback
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{
		length:   DefaultLength,
		fallback: DefaultPrefix,
		prefixes: ServicePrefixes,
	}
	for _, opt := range opts {
		opt(g)
	}

	// longest key wins, so "google firebase" maps to firebase and not google
	g.keys = make([]string, 0, len(g.prefixes))
	for k := range g.prefixes {
		g.keys = append(g.keys, k)
	}
	slices.SortFunc(g.keys, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return g
}

// Prefix returns the prefix for the given service name.
func (g *Generator) Prefix(serviceName string) string {
	lowered := strings.ToLower(serviceName)
	for _, key := range g.keys {
		if strings.Contains(lowered, key) {
			return g.prefixes[key]
		}
	}
	return g.fallback
}

// Generate returns a synthetic token for the given service name.
func (g *Generator) Generate(serviceName string) string {
	var sb strings.Builder
	prefix := g.Prefix(serviceName)
	sb.Grow(len(prefix) + g.length)
	sb.WriteString(prefix)
	for range g.length {
		sb.WriteByte(charset[g.intN(len(charset))])
	}
	return sb.String()
}

func (g *Generator) intN(n int) int {
	if g.rnd == nil {
		return rand.IntN(n)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.IntN(n)
}
