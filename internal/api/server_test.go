package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darmiel/tokenkeep/internal/api/middleware"
	"github.com/darmiel/tokenkeep/internal/core"
	"github.com/darmiel/tokenkeep/internal/logging"
	"github.com/darmiel/tokenkeep/internal/service"
	"github.com/darmiel/tokenkeep/internal/store"
	"github.com/darmiel/tokenkeep/internal/tasks"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Error         string          `json:"error"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	svc     *service.TokenService
	tasks   *tasks.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	svc := service.NewTokenService(store.NewInMemoryTokenStore(),
		service.WithClock(func() time.Time { return testNow }))
	mgr := tasks.NewManager()
	t.Cleanup(mgr.Stop)

	return &testServer{
		t:       t,
		handler: NewServer(svc, mgr, []string{"http://localhost:5173"}).Routes(),
		svc:     svc,
		tasks:   mgr,
	}
}

func (ts *testServer) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	ts.t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(ts.t, err)
		r = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestTokenLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(http.MethodPost, TokensRoute, map[string]string{
		"serviceName": "GitHub API",
		"token":       "ghp_xxx",
		"expiryDate":  "2099-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	assert.Equal(t, "Token created successfully", env.Message)

	created := decodeData[core.Token](t, env)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ghp_xxx", created.Value)
	assert.Equal(t, core.StatusActive, created.Status)

	rec, env = ts.do(http.MethodGet, TokensRoute, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeData[[]core.Token](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec, env = ts.do(http.MethodPost, "/api/tokens/"+created.ID+"/renew", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Token renewed successfully", env.Message)
	renewed := decodeData[core.Token](t, env)
	assert.NotEqual(t, "ghp_xxx", renewed.Value)
	assert.True(t, strings.HasPrefix(renewed.Value, "ghp_"))
	assert.True(t, renewed.ExpiryDate.Equal(testNow.AddDate(1, 0, 0)))

	rec, env = ts.do(http.MethodGet, "/api/tokens/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, renewed.Value, decodeData[core.Token](t, env).Value)

	rec, env = ts.do(http.MethodDelete, "/api/tokens/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Token deleted successfully", env.Message)

	rec, env = ts.do(http.MethodDelete, "/api/tokens/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Token not found", env.Message)
	assert.Equal(t, "No token found with id: "+created.ID, env.Error)
}

func TestCreateToken_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    any
		message string
	}{
		{
			name:    "Missing Fields",
			body:    map[string]string{"serviceName": "GitHub"},
			message: "Missing required fields",
		},
		{
			name:    "Empty Body",
			body:    "",
			message: "Missing required fields",
		},
		{
			name:    "Bad Date",
			body:    map[string]string{"serviceName": "GitHub", "token": "x", "expiryDate": "soon"},
			message: "Invalid date format",
		},
		{
			name:    "Unknown Field",
			body:    `{"serviceName":"a","token":"b","expiryDate":"2099-01-01","admin":true}`,
			message: "Invalid request payload",
		},
		{
			name:    "Malformed JSON",
			body:    `{"serviceName":`,
			message: "Invalid request payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			rec, env := ts.do(http.MethodPost, TokensRoute, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.False(t, env.Success)
			assert.Equal(t, tt.message, env.Message)
			assert.NotEmpty(t, env.Error)
			assert.NotEmpty(t, env.CorrelationID)
		})
	}
}

func TestRenewUnknown(t *testing.T) {
	ts := newTestServer(t)
	rec, env := ts.do(http.MethodPost, "/api/tokens/nope/renew", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Token not found", env.Message)
	assert.Equal(t, "No token found with id: nope", env.Error)
}

func TestSeed(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		status int
		want   int
	}{
		{name: "Default Count", body: nil, status: http.StatusCreated, want: 10},
		{name: "Explicit Count", body: map[string]int{"count": 3}, status: http.StatusCreated, want: 3},
		{name: "Zero", body: map[string]int{"count": 0}, status: http.StatusCreated, want: 0},
		{name: "Too Many", body: map[string]int{"count": MaxSeedCount + 1}, status: http.StatusBadRequest},
		{name: "Wrong Type", body: `{"count":"ten"}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			rec, env := ts.do(http.MethodPost, SeedTokensRoute, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status != http.StatusCreated {
				return
			}
			assert.Equal(t, fmt.Sprintf("Successfully seeded %d tokens", tt.want), env.Message)
			assert.Len(t, decodeData[[]core.Token](t, env), tt.want)

			list, err := ts.svc.List(context.Background())
			require.NoError(t, err)
			assert.Len(t, list, tt.want)
		})
	}
}

func TestViewTokens(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	for i := range 17 {
		expiry := "2030-01-01"
		if i%2 == 0 {
			expiry = "2020-01-01"
		}
		_, err := ts.svc.Create(ctx, service.CreateRequest{
			ServiceName: fmt.Sprintf("Service %02d", i),
			Token:       "x",
			ExpiryDate:  expiry,
		})
		require.NoError(t, err)
	}

	type page struct {
		Items      []core.Token `json:"items"`
		TotalItems int          `json:"totalItems"`
		TotalPages int          `json:"totalPages"`
		Page       int          `json:"page"`
		PageSize   int          `json:"pageSize"`
	}

	rec, env := ts.do(http.MethodGet, ViewTokensRoute+"?page=4", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decodeData[page](t, env)
	assert.Equal(t, 17, p.TotalItems)
	assert.Equal(t, 4, p.TotalPages)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "Service 15", p.Items[0].ServiceName)

	rec, env = ts.do(http.MethodGet, ViewTokensRoute+"?expired=true&sort=serviceName&dir=desc&size=3", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p = decodeData[page](t, env)
	assert.Equal(t, 9, p.TotalItems)
	require.Len(t, p.Items, 3)
	assert.Equal(t, "Service 16", p.Items[0].ServiceName)
	for _, item := range p.Items {
		assert.Equal(t, core.StatusExpired, item.Status)
	}

	rec, env = ts.do(http.MethodGet, ViewTokensRoute+"?where="+url.QueryEscape(`serviceName endsWith "3"`), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p = decodeData[page](t, env)
	assert.Equal(t, 2, p.TotalItems) // 03, 13

	rec, env = ts.do(http.MethodGet, ViewTokensRoute+"?page=4611686018427387905&size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p = decodeData[page](t, env)
	assert.Equal(t, 17, p.TotalItems)
	assert.Equal(t, 9, p.TotalPages)
	assert.Empty(t, p.Items)

	for _, query := range []string{"?sort=secret", "?dir=up", "?page=0", "?size=abc", "?size=1001", "?expired=maybe", "?where=" + url.QueryEscape("status ==")} {
		rec, env = ts.do(http.MethodGet, ViewTokensRoute+query, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Equal(t, "Invalid query parameters", env.Message, query)
	}
}

func TestServices(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.svc.LoadDemoData(context.Background())
	require.NoError(t, err)

	rec, env := ts.do(http.MethodGet, TokenServiceRoute, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	names := decodeData[[]string](t, env)
	assert.Len(t, names, 10)
	assert.Equal(t, "AWS S3", names[0])
}

func TestPublicRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(http.MethodGet, HealthCheckRoute, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Access Manager API is running"}`, rec.Body.String())

	rec, _ = ts.do(http.MethodGet, AboutRoute, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"service":"tokenkeep"`)

	for _, path := range []string{"/nope", "/api/tokens/1/explode"} {
		rec, _ = ts.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.JSONEq(t, `{"error":"Route not found"}`, rec.Body.String(), path)
	}
}

func TestCorrelationAndCORS(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, TokensRoute, nil)
	req.Header.Set(middleware.CorrelationIDHeader, "abc123")
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc123", rec.Header().Get(middleware.CorrelationIDHeader))
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, TokensRoute, nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get(middleware.CorrelationIDHeader), "correlation id is generated")
}

func TestTaskRoutes(t *testing.T) {
	ts := newTestServer(t)
	ts.tasks.Register(tasks.ExpiryReportTask, 0, tasks.NewExpiryReport(ts.svc, time.Hour))

	rec, env := ts.do(http.MethodGet, ListTasksRoute, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	statuses := decodeData[[]tasks.Status](t, env)
	require.Len(t, statuses, 1)
	assert.Equal(t, tasks.ExpiryReportTask, statuses[0].Name)

	rec, _ = ts.do(http.MethodPost, "/api/tasks/"+tasks.ExpiryReportTask+"/trigger", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec, env = ts.do(http.MethodPost, "/api/tasks/nope/trigger", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", env.Message)

	rec, _ = ts.do(http.MethodGet, "/api/tasks/nope/logs", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecoverMiddleware(t *testing.T) {
	logging.InitDefault()

	h := middleware.RecoverMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
