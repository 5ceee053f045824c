package httpapi

import (
	"net/http"

	"chat-relay/auth"
)

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		ChatID  string `json:"chatId"`
	}
	if err := decodeBody(r, &req); err != nil || req.Content == "" || req.ChatID == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "content and chatId required"})
		return
	}
	view, err := s.messages.Send(auth.UserID(r.Context()), req.ChatID, req.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toMessageJSON(view))
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("chatId")
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	views, next, err := s.messages.List(auth.UserID(r.Context()), chatID, cursor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]messageJSON, 0, len(views))
	for _, view := range views {
		out = append(out, toMessageJSON(view))
	}
	response := struct {
		Messages []messageJSON `json:"messages"`
		Next     *string       `json:"next,omitempty"`
	}{Messages: out, Next: next}
	s.writeJSON(w, http.StatusOK, response)
}
