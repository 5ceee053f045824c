package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "chat-relay/errors"

	"chat-relay/auth"
	"chat-relay/services"
)

// Server mounts the REST surface: account management, chat management and
// message history. Realtime delivery lives on the websocket endpoint, not
// here.
type Server struct {
	log      *slog.Logger
	auth     services.IAuthService
	chats    services.IChatService
	messages services.IMessageService
}

func NewServer(log *slog.Logger, authService services.IAuthService,
	chatService services.IChatService, messageService services.IMessageService) *Server {
	return &Server{
		log:      log,
		auth:     authService,
		chats:    chatService,
		messages: messageService,
	}
}

func (s *Server) Attach(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/user", s.handleRegister)
	mux.HandleFunc("POST /api/user/login", s.handleLogin)
	mux.Handle("GET /api/user", auth.Middleware(http.HandlerFunc(s.handleSearchUsers)))

	mux.Handle("POST /api/chat", auth.Middleware(http.HandlerFunc(s.handleAccessChat)))
	mux.Handle("GET /api/chat", auth.Middleware(http.HandlerFunc(s.handleFetchChats)))
	mux.Handle("POST /api/chat/group", auth.Middleware(http.HandlerFunc(s.handleCreateGroup)))
	mux.Handle("PUT /api/chat/rename", auth.Middleware(http.HandlerFunc(s.handleRenameGroup)))
	mux.Handle("PUT /api/chat/groupadd", auth.Middleware(http.HandlerFunc(s.handleAddToGroup)))
	mux.Handle("PUT /api/chat/groupremove", auth.Middleware(http.HandlerFunc(s.handleRemoveFromGroup)))

	mux.Handle("POST /api/message", auth.Middleware(http.HandlerFunc(s.handleSendMessage)))
	mux.Handle("GET /api/message/{chatId}", auth.Middleware(http.HandlerFunc(s.handleListMessages)))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("Request failed", slog.String("error", err.Error()))
	}
	s.writeJSON(w, status, map[string]string{"message": err.Error()})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
