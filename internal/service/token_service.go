package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/tokenkeep/internal/core"
	"github.com/darmiel/tokenkeep/internal/generator"
	"github.com/darmiel/tokenkeep/internal/validation"
	"github.com/darmiel/tokenkeep/internal/view"
)

const (
	// DefaultSeedCount is used by callers that do not specify a count.
	DefaultSeedCount = 10

	// seedMonthSpan is the half width of the random expiry offset used when seeding.
	seedMonthSpan = 12
)

// SeedServices is the pool of service names used by Seed.
var SeedServices = []string{
	"GitHub API",
	"AWS S3",
	"Stripe API",
	"SendGrid",
	"Google Cloud Platform",
	"MongoDB Atlas",
	"Vercel",
	"Supabase",
	"Auth0",
	"Twilio",
	"Heroku",
	"DigitalOcean",
	"Cloudflare",
	"Firebase",
	"Netlify",
	"Railway",
	"Render",
	"PlanetScale",
	"Upstash",
	"Algolia",
}

// TokenService owns the token collection. Every operation is serialized through mu,
// so readers never observe a half-applied renew.
type TokenService struct {
	mu   sync.RWMutex
	repo core.TokenRepository

	gen   *generator.Generator
	now   func() time.Time
	newID func() string

	rndMu sync.Mutex
	rnd   *rand.Rand
}

type Option func(*TokenService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

// WithGenerator overrides the secret generator used by Renew and Seed.
func WithGenerator(g *generator.Generator) Option {
	return func(s *TokenService) {
		s.gen = g
	}
}

// WithIDSource overrides id assignment. Ids must never repeat.
func WithIDSource(newID func() string) Option {
	return func(s *TokenService) {
		s.newID = newID
	}
}

// WithRand sets the random source used to pick seed services and expiry offsets.
func WithRand(src rand.Source) Option {
	return func(s *TokenService) {
		s.rnd = rand.New(src)
	}
}

func NewTokenService(repo core.TokenRepository, opts ...Option) *TokenService {
	s := &TokenService{
		repo: repo,
		gen:  generator.New(),
		now:  time.Now,
		newID: func() string {
			return ulid.Make().String()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current time of the service clock.
func (s *TokenService) Now() time.Time {
	return s.now()
}

// List returns every token with its status derived against the current time.
func (s *TokenService) List(ctx context.Context) ([]core.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens, err := s.repo.All(ctx)
	if err != nil {
		return nil, httpError(http.StatusInternalServerError, "Failed to fetch tokens",
			fmt.Errorf("listing tokens: %w", err))
	}
	now := s.now()
	for i := range tokens {
		tokens[i] = tokens[i].WithStatus(now)
	}
	return tokens, nil
}

func (s *TokenService) Get(ctx context.Context, id string) (core.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tok, err := s.repo.Get(ctx, id)
	if err != nil {
		return core.Token{}, s.lookupError(id, err)
	}
	return tok.WithStatus(s.now()), nil
}

// Create validates the request and stores a new token under a fresh id.
func (s *TokenService) Create(ctx context.Context, req CreateRequest) (core.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.create(ctx, req)
}

func (s *TokenService) create(ctx context.Context, req CreateRequest) (core.Token, error) {
	serviceName := strings.TrimSpace(req.ServiceName)

	// the secret is opaque and stored as given, blanks only count for the presence check
	if err := validation.RequireFields(
		"serviceName", serviceName,
		"token", strings.TrimSpace(req.Token),
		"expiryDate", req.ExpiryDate,
	); err != nil {
		return core.Token{}, httpError(http.StatusBadRequest, "Missing required fields", err)
	}

	expiry, err := validation.ParseExpiry(req.ExpiryDate)
	if err != nil {
		return core.Token{}, httpError(http.StatusBadRequest, "Invalid date format", err)
	}

	tok := core.Token{
		ID:          s.newID(),
		ServiceName: serviceName,
		Value:       req.Token,
		ExpiryDate:  expiry,
	}
	if err := s.repo.Insert(ctx, tok); err != nil {
		return core.Token{}, httpError(http.StatusInternalServerError, "Failed to create token",
			fmt.Errorf("inserting token %s: %w", tok.ID, err))
	}

	log.Ctx(ctx).Debug().
		Str("id", tok.ID).
		Str("service", tok.ServiceName).
		Time("expiry", tok.ExpiryDate).
		Msg("token created")

	return tok.WithStatus(s.now()), nil
}

// Renew replaces the secret of the token and sets its expiry to one year from now.
// The previous expiry is not taken into account.
func (s *TokenService) Renew(ctx context.Context, id string) (core.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.repo.Get(ctx, id)
	if err != nil {
		return core.Token{}, s.lookupError(id, err)
	}

	now := s.now()
	tok.Value = s.gen.Generate(tok.ServiceName)
	tok.ExpiryDate = now.AddDate(1, 0, 0)

	if err := s.repo.Update(ctx, tok); err != nil {
		return core.Token{}, s.lookupError(id, err)
	}

	log.Ctx(ctx).Debug().
		Str("id", tok.ID).
		Time("expiry", tok.ExpiryDate).
		Msg("token renewed")

	return tok.WithStatus(now), nil
}

// Delete removes the token and reports whether it existed.
func (s *TokenService) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, httpError(http.StatusInternalServerError, "Failed to delete token",
			fmt.Errorf("deleting token %s: %w", id, err))
	}
	return removed, nil
}

// Seed creates count synthetic tokens and returns only those.
// If one of them cannot be stored, the ones created so far are removed again.
func (s *TokenService) Seed(ctx context.Context, count int) ([]core.Token, error) {
	if count <= 0 {
		return []core.Token{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	created := make([]core.Token, 0, count)
	for range count {
		serviceName := SeedServices[s.intN(len(SeedServices))]
		months := s.intN(2*seedMonthSpan) - seedMonthSpan

		tok, err := s.create(ctx, CreateRequest{
			ServiceName: serviceName,
			Token:       s.gen.Generate(serviceName),
			ExpiryDate:  now.AddDate(0, months, 0).Format(time.RFC3339Nano),
		})
		if err != nil {
			s.discard(ctx, created)
			return nil, err
		}
		created = append(created, tok)
	}

	log.Ctx(ctx).Info().Int("count", len(created)).Msg("seeded tokens")
	return created, nil
}

// Services returns the distinct service names in sorted order.
func (s *TokenService) Services(ctx context.Context) ([]string, error) {
	tokens, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return view.UniqueServices(tokens), nil
}

// LoadDemoData inserts the demo dataset if the collection is empty.
// It reports how many tokens were inserted.
func (s *TokenService) LoadDemoData(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking existing tokens: %w", err)
	}
	if len(existing) > 0 {
		log.Ctx(ctx).Debug().Int("existing", len(existing)).Msg("store not empty, skipping demo data")
		return 0, nil
	}

	for _, tok := range DemoTokens() {
		if err := s.repo.Insert(ctx, tok); err != nil {
			return 0, fmt.Errorf("inserting demo token %s: %w", tok.ID, err)
		}
	}
	return len(demoTokens), nil
}

// Stats counts tokens by status. Expiring counts active tokens that expire within window.
func (s *TokenService) Stats(ctx context.Context, window time.Duration) (Stats, error) {
	tokens, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	now := s.now()
	horizon := now.Add(window)
	st := Stats{
		Total:  len(tokens),
		Window: window.String(),
		At:     now,
	}
	for _, t := range tokens {
		switch t.Status {
		case core.StatusExpired:
			st.Expired++
		default:
			st.Active++
			if !t.ExpiryDate.After(horizon) {
				st.Expiring++
			}
		}
	}
	return st, nil
}

// discard deletes tokens of an aborted seed. Failures are only logged, the seed error wins.
func (s *TokenService) discard(ctx context.Context, tokens []core.Token) {
	for _, t := range tokens {
		if _, err := s.repo.Delete(ctx, t.ID); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("id", t.ID).Msg("could not remove token of aborted seed")
		}
	}
}

func (s *TokenService) lookupError(id string, err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return httpError(http.StatusNotFound, "Token not found", &core.NotFoundError{ID: id})
	}
	return httpError(http.StatusInternalServerError, "Failed to fetch token",
		fmt.Errorf("fetching token %s: %w", id, err))
}

func (s *TokenService) intN(n int) int {
	if s.rnd == nil {
		return rand.IntN(n)
	}
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return s.rnd.IntN(n)
}
