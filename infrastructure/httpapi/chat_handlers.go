package httpapi

import (
	"net/http"

	"chat-relay/auth"
)

func (s *Server) handleAccessChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := decodeBody(r, &req); err != nil || req.UserID == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "userId not provided"})
		return
	}
	view, err := s.chats.AccessChat(auth.UserID(r.Context()), req.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toChatJSON(view))
}

func (s *Server) handleFetchChats(w http.ResponseWriter, r *http.Request) {
	views, err := s.chats.FetchChats(auth.UserID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]chatJSON, 0, len(views))
	for _, view := range views {
		out = append(out, toChatJSON(view))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string   `json:"name"`
		Users []string `json:"users"`
	}
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "please fill all the fields"})
		return
	}
	view, err := s.chats.CreateGroup(auth.UserID(r.Context()), req.Name, req.Users)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toChatJSON(view))
}

func (s *Server) handleRenameGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatID   string `json:"chatId"`
		ChatName string `json:"chatName"`
	}
	if err := decodeBody(r, &req); err != nil || req.ChatID == "" || req.ChatName == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "chatId and chatName required"})
		return
	}
	view, err := s.chats.RenameGroup(auth.UserID(r.Context()), req.ChatID, req.ChatName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toChatJSON(view))
}

func (s *Server) handleAddToGroup(w http.ResponseWriter, r *http.Request) {
	chatID, userID, ok := decodeMembershipChange(w, r)
	if !ok {
		return
	}
	view, err := s.chats.AddToGroup(auth.UserID(r.Context()), chatID, userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toChatJSON(view))
}

func (s *Server) handleRemoveFromGroup(w http.ResponseWriter, r *http.Request) {
	chatID, userID, ok := decodeMembershipChange(w, r)
	if !ok {
		return
	}
	view, err := s.chats.RemoveFromGroup(auth.UserID(r.Context()), chatID, userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toChatJSON(view))
}

func decodeMembershipChange(w http.ResponseWriter, r *http.Request) (chatID, userID string, ok bool) {
	var req struct {
		ChatID string `json:"chatId"`
		UserID string `json:"userId"`
	}
	if err := decodeBody(r, &req); err != nil || req.ChatID == "" || req.UserID == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"chatId and userId required"}`))
		return "", "", false
	}
	return req.ChatID, req.UserID, true
}
