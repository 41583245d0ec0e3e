package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/tokenkeep/internal/api/presenter"
	"github.com/darmiel/tokenkeep/internal/core"
	"github.com/darmiel/tokenkeep/internal/service"
	"github.com/darmiel/tokenkeep/internal/validation"
	"github.com/darmiel/tokenkeep/internal/view"
)

const (
	// MaxSeedCount bounds a single seed request.
	MaxSeedCount = 1000

	// MaxPageSize bounds the size query parameter of the view route.
	MaxPageSize = 1000
)

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.tokenService.List(r.Context())
	if err != nil {
		presenter.Err(w, r, err)
		return
	}
	presenter.Success(w, r, "", tokens, http.StatusOK)
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.tokenService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		presenter.Err(w, r, err)
		return
	}
	presenter.Success(w, r, "", token, http.StatusOK)
}

func (s *Server) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload service.CreateRequest
	if err := DecodePayload(w, r, &payload, true /* allow empty */); err != nil {
		logger.Warn().Err(err).Msg("failed to decode create request payload")
		presenter.Error(w, r, "Invalid request payload", err.Error(), http.StatusBadRequest)
		return
	}

	token, err := s.tokenService.Create(ctx, payload)
	if err != nil {
		presenter.Err(w, r, err)
		return
	}

	logger.Info().Str("id", token.ID).Str("service", token.ServiceName).Msg("token created")
	presenter.Success(w, r, "Token created successfully", token, http.StatusCreated)
}

func (s *Server) handleRenewToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, err := s.tokenService.Renew(ctx, r.PathValue("id"))
	if err != nil {
		presenter.Err(w, r, err)
		return
	}

	log.Ctx(ctx).Info().Str("id", token.ID).Time("expiry", token.ExpiryDate).Msg("token renewed")
	presenter.Success(w, r, "Token renewed successfully", token, http.StatusOK)
}

func (s *Server) handleDeleteToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	removed, err := s.tokenService.Delete(ctx, id)
	if err != nil {
		presenter.Err(w, r, err)
		return
	}
	if !removed {
		presenter.Error(w, r, "Token not found", (&core.NotFoundError{ID: id}).Error(), http.StatusNotFound)
		return
	}

	log.Ctx(ctx).Info().Str("id", id).Msg("token deleted")
	presenter.Success(w, r, "Token deleted successfully", nil, http.StatusOK)
}

type SeedPayload struct {
	// Count defaults to service.DefaultSeedCount when omitted.
	Count *int `json:"count,omitempty"`
}

func (s *Server) handleSeedTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload SeedPayload
	if err := DecodePayload(w, r, &payload, true /* allow empty */); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to decode seed request payload")
		presenter.Error(w, r, "Invalid request payload", err.Error(), http.StatusBadRequest)
		return
	}

	count := service.DefaultSeedCount
	if payload.Count != nil {
		count = *payload.Count
	}
	if count > MaxSeedCount {
		presenter.Error(w, r, "Invalid seed count",
			fmt.Sprintf("count must not exceed %d", MaxSeedCount), http.StatusBadRequest)
		return
	}

	tokens, err := s.tokenService.Seed(ctx, count)
	if err != nil {
		presenter.Err(w, r, err)
		return
	}
	presenter.Success(w, r, fmt.Sprintf("Successfully seeded %d tokens", len(tokens)), tokens, http.StatusCreated)
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	names, err := s.tokenService.Services(r.Context())
	if err != nil {
		presenter.Err(w, r, err)
		return
	}
	presenter.Success(w, r, "", names, http.StatusOK)
}

func (s *Server) handleViewTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	params, where, err := parseViewQuery(r)
	if err != nil {
		presenter.Error(w, r, "Invalid query parameters", err.Error(), http.StatusBadRequest)
		return
	}

	tokens, err := s.tokenService.List(ctx)
	if err != nil {
		presenter.Err(w, r, err)
		return
	}

	if where != nil {
		now := s.tokenService.Now()
		params.Match = func(t core.Token) bool {
			ok, err := where.Match(t, now)
			if err != nil {
				logger.Debug().Err(err).Str("id", t.ID).Msg("where expression failed, skipping token")
			}
			return ok
		}
	}

	presenter.Success(w, r, "", view.Apply(tokens, params), http.StatusOK)
}

// parseViewQuery reads the view parameters from the query string.
func parseViewQuery(r *http.Request) (view.Params, *validation.Where, error) {
	q := r.URL.Query()
	p := view.DefaultParams()

	if v := q.Get("service"); v != "" {
		p.ServiceFilter = v
	}
	if v := q.Get("expired"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, nil, fmt.Errorf("expired: %w", err)
		}
		p.ExpiredOnly = b
	}

	field, err := view.ParseSortField(q.Get("sort"))
	if err != nil {
		return p, nil, err
	}
	p.SortField = field

	dir, err := view.ParseSortDirection(q.Get("dir"))
	if err != nil {
		return p, nil, err
	}
	p.SortDirection = dir

	if p.Page, err = positiveInt(q.Get("page"), 1); err != nil {
		return p, nil, fmt.Errorf("page: %w", err)
	}
	if p.PageSize, err = positiveInt(q.Get("size"), view.DefaultPageSize); err != nil {
		return p, nil, fmt.Errorf("size: %w", err)
	}
	if p.PageSize > MaxPageSize {
		return p, nil, fmt.Errorf("size: must be at most %d, got %d", MaxPageSize, p.PageSize)
	}

	var where *validation.Where
	if src := q.Get("where"); src != "" {
		if where, err = validation.CompileWhere(src); err != nil {
			return p, nil, err
		}
	}
	return p, where, nil
}

func positiveInt(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("must be at least 1, got %d", n)
	}
	return n, nil
}
