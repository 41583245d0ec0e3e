package api

import (
	"net/http"

	"github.com/darmiel/tokenkeep/internal/api/presenter"
	"github.com/darmiel/tokenkeep/internal/buildinfo"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// handleHealth reports that the API is up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, HealthResponse{
		Status:  "ok",
		Message: "Access Manager API is running",
	}, http.StatusOK)
}

// handleAbout responds with service information including version and commit hash.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, buildinfo.GetBuildInfo(), http.StatusOK)
}

type NotFoundResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, NotFoundResponse{Error: "Route not found"}, http.StatusNotFound)
}
