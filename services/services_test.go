package services

import (
	"log/slog"
	"testing"
	"time"

	"chat-relay/auth"
	"chat-relay/moderation"
	"chat-relay/repositories"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

// fixture wires the services against a throwaway badger and bluge store,
// the same way the bootstrap does.
type fixture struct {
	auth     *AuthService
	chats    *ChatService
	messages *MessageService
	users    *repositories.UserRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	log := slog.Default()
	userRepo := repositories.NewUserRepository(db, writer, log)
	chatRepo := repositories.NewChatRepository(db)
	messageRepo := repositories.NewMessageRepository(db, log, nil)

	moderator, err := moderation.NewModerator([]string{"badword"}, '*')
	require.NoError(t, err)

	return fixture{
		auth:     NewAuthService(userRepo, time.Hour),
		chats:    NewChatService(chatRepo, userRepo),
		messages: NewMessageService(messageRepo, chatRepo, userRepo, &moderator),
		users:    userRepo,
	}
}

func (f fixture) register(t *testing.T, name, email string) AuthenticatedUser {
	t.Helper()
	user, err := f.auth.Register(auth.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)
	return user
}
