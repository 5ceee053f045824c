package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("SERVER_ADDR not set, skipping e2e scenarios")
	}
	s.client = &http.Client{Timeout: 30 * time.Second}
}

func (s *BaseHTTPSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// PostJSON sends a JSON body to the server and decodes the response into out.
func (s *BaseHTTPSuite) PostJSON(method, path, token string, body any, out any) int {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	url := fmt.Sprintf("http://%s%s", s.Config.ServerAddr, path)
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintln(&logBuilder, "\nREQUEST:")
		fmt.Fprintln(&logBuilder, string(payload))
		fmt.Fprintln(&logBuilder, "RESPONSE:")
		fmt.Fprintln(&logBuilder, string(raw))
	}
	s.T().Log(logBuilder.String())

	if out != nil && len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, out))
	}
	return resp.StatusCode
}

// DialSocket opens a websocket connection to the relay endpoint.
func (s *BaseHTTPSuite) DialSocket() *websocket.Conn {
	url := fmt.Sprintf("ws://%s/ws", s.Config.ServerAddr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err, "Failed to connect to websocket at "+url)
	return conn
}

// Emit writes one socket frame in the envelope format.
func (s *BaseHTTPSuite) Emit(conn *websocket.Conn, eventName string, payload any) {
	frame := map[string]any{"event": eventName}
	if payload != nil {
		frame["payload"] = payload
	}
	s.Require().NoError(conn.WriteJSON(frame))
}

// Expect reads frames until one matches the wanted event name or the
// deadline passes, returning its payload.
func (s *BaseHTTPSuite) Expect(t *testing.T, conn *websocket.Conn, eventName string, timeout time.Duration) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(timeout)
	s.Require().NoError(conn.SetReadDeadline(deadline))

	for {
		var frame struct {
			Event   string          `json:"event"`
			Payload json.RawMessage `json:"payload"`
		}
		err := conn.ReadJSON(&frame)
		s.Require().NoError(err, "No %q frame before deadline", eventName)
		t.Logf("WS <- %s", frame.Event)
		if frame.Event == eventName {
			return frame.Payload
		}
	}
}
