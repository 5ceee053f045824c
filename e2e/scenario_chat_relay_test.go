package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testChatRelaySuite struct {
	BaseHTTPSuite
}

func TestChatRelaySuite(t *testing.T) {
	suite.Run(t, &testChatRelaySuite{})
}

type wireUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type wireChat struct {
	ID    string     `json:"_id"`
	Users []wireUser `json:"users"`
}

func (s *testChatRelaySuite) TestFullMessageFlow() {
	run := uuid.New().String()[:8]

	var alice, bob wireUser

	s.Run("Step 1: Register two users", func() {
		s.Step("Registering users over REST")
		status := s.PostJSON(http.MethodPost, "/api/user", "", map[string]string{
			"name":     "Alice " + run,
			"email":    fmt.Sprintf("alice-%s@example.com", run),
			"password": "Sup3rSecret",
		}, &alice)
		s.Require().Equal(http.StatusCreated, status)
		s.Require().NotEmpty(alice.Token)

		status = s.PostJSON(http.MethodPost, "/api/user", "", map[string]string{
			"name":     "Bob " + run,
			"email":    fmt.Sprintf("bob-%s@example.com", run),
			"password": "Sup3rSecret",
		}, &bob)
		s.Require().Equal(http.StatusCreated, status)
	})

	var chat wireChat
	s.Run("Step 2: Open a direct chat", func() {
		s.Step("Alice opens a chat with Bob")
		status := s.PostJSON(http.MethodPost, "/api/chat", alice.Token, map[string]string{
			"userId": bob.ID,
		}, &chat)
		s.Require().Equal(http.StatusOK, status)
		s.Require().Len(chat.Users, 2)
	})

	s.Run("Step 3: Relay a message over websockets", func() {
		s.Step("Both users connect and identify")
		aliceConn := s.DialSocket()
		defer aliceConn.Close()
		bobConn := s.DialSocket()
		defer bobConn.Close()

		s.Emit(aliceConn, "setup", map[string]string{"_id": alice.ID})
		s.Expect(s.T(), aliceConn, "connected", 5*time.Second)

		s.Emit(bobConn, "setup", map[string]string{"_id": bob.ID})
		s.Expect(s.T(), bobConn, "connected", 5*time.Second)

		s.Emit(aliceConn, "join chat", chat.ID)
		s.Emit(bobConn, "join chat", chat.ID)

		s.Step("Alice types, Bob sees the indicator")
		s.Emit(aliceConn, "typing", chat.ID)
		s.Expect(s.T(), bobConn, "typing", 5*time.Second)
		s.Emit(aliceConn, "stop typing", chat.ID)
		s.Expect(s.T(), bobConn, "stop typing", 5*time.Second)

		s.Step("Alice persists a message then emits it")
		var stored json.RawMessage
		status := s.PostJSON(http.MethodPost, "/api/message", alice.Token, map[string]string{
			"content": "hello bob",
			"chatId":  chat.ID,
		}, &stored)
		s.Require().Equal(http.StatusCreated, status)

		s.Emit(aliceConn, "new message", json.RawMessage(stored))

		payload := s.Expect(s.T(), bobConn, "message recieved", 5*time.Second)
		var received struct {
			Content string `json:"content"`
		}
		s.Require().NoError(json.Unmarshal(payload, &received))
		s.Require().Equal("hello bob", received.Content)
	})
}
