// Package api exposes the offer engine and resume store over HTTP.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/offers-api/internal/offers"
	"github.com/sells-group/offers-api/internal/resume"
)

// Server holds the handler dependencies.
type Server struct {
	offers  *offers.Service
	resumes resume.Store
}

// NewServer creates the API server.
func NewServer(offerSvc *offers.Service, resumeStore resume.Store) *Server {
	return &Server{offers: offerSvc, resumes: resumeStore}
}

// Routes builds the router.
func (s *Server) Routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-User-ID"},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/offers", s.handleListOffers)
	r.Route("/profiles/{profileID}/analysis", func(r chi.Router) {
		r.Post("/", s.handleGenerateAnalysis)
		r.Get("/", s.handleGetAnalysis)
	})
	r.Route("/resumes", func(r chi.Router) {
		r.Put("/", s.handleUpsertResume)
		r.Get("/me", s.handleMyResumes)
		r.Get("/starred", s.handleStarredResumes)
		r.Post("/{resumeID}/star", s.handleStarResume)
		r.Delete("/{resumeID}/star", s.handleUnstarResume)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.offers.ListOffers(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerateAnalysis(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")
	dto, err := s.offers.GenerateAnalysis(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")
	dto, err := s.offers.GetAnalysis(r.Context(), profileID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleUpsertResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var in resume.UpsertInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, offers.BadRequestError("invalid request body"))
		return
	}
	res, err := s.resumes.Upsert(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMyResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	list, err := s.resumes.ListUserCreated(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleStarredResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	list, err := s.resumes.ListUserStarred(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleStarResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := s.resumes.Star(r.Context(), userID, chi.URLParam(r, "resumeID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "starred"})
}

func (s *Server) handleUnstarResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := s.resumes.Unstar(r.Context(), userID, chi.URLParam(r, "resumeID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unstarred"})
}

// requireUser extracts the authenticated user set by the upstream gateway.
// Session handling itself lives outside this service.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "user identity required"})
		return "", false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch offers.CodeOf(err) {
	case offers.CodeNotFound:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case offers.CodeBadRequest:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		zap.L().Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
