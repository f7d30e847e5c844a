package e2e

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

// BaseWsSuite carries the environment config and the websocket plumbing
// shared by every scenario. Scenarios skip when ARENA_ADDR is not set.
type BaseWsSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseWsSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ArenaAddr == "" {
		s.T().Skip("ARENA_ADDR not set, skipping e2e scenarios")
	}
}

// Connect opens a websocket connection with logging, colors, and JSON
// debugging, and consumes the welcome greeting.
func (s *BaseWsSuite) Connect(name string) *WsClient {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	url := fmt.Sprintf("ws://%s/ws", s.Config.ArenaAddr)
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(url, nil)
	s.Require().NoError(err, "Failed to connect to websocket server at "+url)

	client := &WsClient{suite: s, conn: conn}
	welcome := client.Expect("welcome")
	s.Require().Equal("welcome", welcome.Type)
	return client
}

type WsClient struct {
	suite *BaseWsSuite
	conn  *websocket.Conn
}

type WireMessage struct {
	Type    string          `json:"type"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *WsClient) Close() {
	_ = c.conn.Close()
}

// Send writes one action message, logging the full frame when
// E2E_DEBUG_JSON is enabled.
func (c *WsClient) Send(payload map[string]any) {
	if c.suite.Config.DebugJSON {
		raw, _ := json.MarshalIndent(payload, "", "  ")
		c.suite.T().Logf("SEND:\n%s", raw)
	}
	c.suite.Require().NoError(c.conn.WriteJSON(payload))
}

// Expect reads frames until one of the wanted type arrives. Error frames
// fail the scenario immediately so a broken flow never hangs on a read.
func (c *WsClient) Expect(wanted string) WireMessage {
	deadline := time.Now().Add(10 * time.Second)
	c.suite.Require().NoError(c.conn.SetReadDeadline(deadline))
	for {
		var msg WireMessage
		c.suite.Require().NoError(c.conn.ReadJSON(&msg))
		if c.suite.Config.DebugJSON {
			raw, _ := json.MarshalIndent(msg, "", "  ")
			c.suite.T().Logf("RECV:\n%s", raw)
		}
		if msg.Type == wanted {
			return msg
		}
		c.suite.Require().NotEqual("error", msg.Type, "Server rejected request: "+msg.Message)
	}
}

// ExpectError reads frames until an error arrives, returning its message.
func (c *WsClient) ExpectError() string {
	deadline := time.Now().Add(10 * time.Second)
	c.suite.Require().NoError(c.conn.SetReadDeadline(deadline))
	for {
		var msg WireMessage
		c.suite.Require().NoError(c.conn.ReadJSON(&msg))
		if msg.Type == "error" {
			return msg.Message
		}
	}
}
