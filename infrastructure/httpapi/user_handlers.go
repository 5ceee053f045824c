package httpapi

import (
	"net/http"

	"chat-relay/auth"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}
	authenticated, err := s.auth.Register(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view := toUserJSON(authenticated.User)
	view.Token = authenticated.Token
	s.writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}
	authenticated, err := s.auth.Login(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view := toUserJSON(authenticated.User)
	view.Token = authenticated.Token
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("search")
	users, err := s.auth.SearchUsers(r.Context(), query, auth.UserID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	views := make([]userJSON, 0, len(users))
	for _, u := range users {
		views = append(views, toUserJSON(u))
	}
	s.writeJSON(w, http.StatusOK, views)
}
