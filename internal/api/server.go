package api

import (
	"net/http"

	"github.com/darmiel/tokenkeep/internal/api/middleware"
	"github.com/darmiel/tokenkeep/internal/service"
	"github.com/darmiel/tokenkeep/internal/tasks"
)

type Server struct {
	tokenService *service.TokenService
	taskManager  *tasks.Manager
	corsOrigins  []string
}

func NewServer(tokenService *service.TokenService, taskManager *tasks.Manager, corsOrigins []string) *Server {
	return &Server{
		tokenService: tokenService,
		taskManager:  taskManager,
		corsOrigins:  corsOrigins,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)

	// tokens
	mux.HandleFunc("GET "+TokensRoute, s.handleListTokens)
	mux.HandleFunc("POST "+TokensRoute, s.handleCreateToken)
	mux.HandleFunc("GET "+ViewTokensRoute, s.handleViewTokens)
	mux.HandleFunc("GET "+TokenServiceRoute, s.handleListServices)
	mux.HandleFunc("POST "+SeedTokensRoute, s.handleSeedTokens)
	mux.HandleFunc("GET "+TokenRoute, s.handleGetToken)
	mux.HandleFunc("POST "+RenewTokenRoute, s.handleRenewToken)
	mux.HandleFunc("DELETE "+TokenRoute, s.handleDeleteToken)

	// tasks
	mux.HandleFunc("GET "+ListTasksRoute, s.handleListTasks)
	mux.HandleFunc("POST "+TriggerTaskRoute, s.handleTriggerTask)
	mux.HandleFunc("GET "+LogsForTaskRoute, s.handleLogsForTask)

	mux.HandleFunc("/", s.handleNotFound)

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.CORS(s.corsOrigins)(
				middleware.LoggingMiddleware(
					mux))))
}
