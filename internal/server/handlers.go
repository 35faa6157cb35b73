package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"retardio-meter/internal/meter"
	"retardio-meter/internal/storage"
)

const (
	defaultHistoryLimit     = 20
	defaultLeaderboardLimit = 100
	maxLimit                = 1000
)

// Messages shown on the score page.
const (
	msgInvalidAddress = "Invalid wallet address"
	msgFetchError     = "Error fetching balance"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "retardio-meter",
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, pageData{})
}

func (s *Server) handleScoreForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, http.StatusBadRequest, pageData{Error: msgInvalidAddress})
		return
	}
	wallet := strings.TrimSpace(r.PostForm.Get("wallet"))
	data := pageData{Wallet: wallet}

	rec, err := s.service.Score(r.Context(), wallet)
	switch {
	case errors.Is(err, meter.ErrInvalidAddress):
		data.Error = msgInvalidAddress
		s.renderPage(w, http.StatusBadRequest, data)
	case err != nil:
		data.Error = msgFetchError
		s.renderPage(w, http.StatusBadGateway, data)
	default:
		data.Result = newResultView(rec)
		s.renderPage(w, http.StatusOK, data)
	}
}

func (s *Server) handleAPIScore(w http.ResponseWriter, r *http.Request) {
	rec, err := s.service.Score(r.Context(), chi.URLParam(r, "wallet"))
	switch {
	case errors.Is(err, meter.ErrInvalidAddress):
		s.writeError(w, http.StatusBadRequest, msgInvalidAddress)
	case err != nil:
		s.writeError(w, http.StatusBadGateway, msgFetchError)
	default:
		s.writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) handleAPILatest(w http.ResponseWriter, r *http.Request) {
	rec, err := s.service.Latest(r.Context(), chi.URLParam(r, "wallet"))
	if err != nil {
		s.writeReadError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.parseLimit(w, r, defaultHistoryLimit)
	if !ok {
		return
	}

	history, err := s.service.History(r.Context(), chi.URLParam(r, "wallet"), limit)
	if err != nil {
		s.writeReadError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleAPILeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.parseLimit(w, r, defaultLeaderboardLimit)
	if !ok {
		return
	}

	board, err := s.service.Leaderboard(r.Context(), limit)
	if err != nil {
		s.writeReadError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, board)
}

// parseLimit reads ?limit=, writing a 400 response when it is malformed.
func (s *Server) parseLimit(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > maxLimit {
		s.writeError(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxLimit))
		return 0, false
	}
	return limit, true
}

func (s *Server) writeReadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, meter.ErrInvalidAddress):
		s.writeError(w, http.StatusBadRequest, msgInvalidAddress)
	case errors.Is(err, storage.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "no score recorded")
	default:
		s.log.Error().Err(err).Msg("read scores failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
