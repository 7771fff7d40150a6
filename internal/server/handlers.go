package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"salita/internal/api"
	"salita/internal/logging"
	"salita/internal/services"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type usersResponse struct {
	Users []api.User `json:"users"`
}

type historyResponse struct {
	Games []api.HistoryEntry `json:"games"`
}

type leaderboardResponse struct {
	Entries []api.LeaderboardEntry `json:"entries"`
}

type timezoneRequest struct {
	Timezone string `json:"timezone"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.svc.Status(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	code := http.StatusOK
	if status.Status == "unavailable" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Catalog())
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usersResponse{Users: users})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req api.CreateUserRequest
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.svc.CreateUser(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.svc.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleSetTimezone(w http.ResponseWriter, r *http.Request) {
	var req timezoneRequest
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.svc.SetTimezone(r.Context(), r.PathValue("id"), req.Timezone)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Progress(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleQuests(w http.ResponseWriter, r *http.Request) {
	board, err := s.svc.Quests(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleRecordGame(w http.ResponseWriter, r *http.Request) {
	var req api.GameRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.svc.RecordGame(r.Context(), r.PathValue("id"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.queryLimit(w, r)
	if !ok {
		return
	}
	games, err := s.svc.History(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Games: games})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.queryLimit(w, r)
	if !ok {
		return
	}
	entries, err := s.svc.Leaderboard(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Entries: entries})
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	var req api.TagRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.svc.Tag(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req api.VerifyRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.svc.Verify(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if !s.decode(w, r, &req) {
		return
	}
	reply, err := s.svc.Chat(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "server", "query", fmt.Sprintf("invalid limit %q", raw), nil))
		return 0, false
	}
	return limit, true
}

// decode reads a JSON body into target, answering 400 on malformed input.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		msg := "invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "request body required"
		}
		s.writeError(w, r, services.Wrap(services.ErrValidation, "server", "decode", msg, err))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := services.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.WithContext(r.Context(), s.logger).Error("request failed",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
		message = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
