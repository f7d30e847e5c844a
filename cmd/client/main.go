// Demo client: opens two websocket connections, creates a session, seats
// both players and plays a short scripted exchange, printing each state
// update as a table.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	Host     string        `env:"HOST,default=localhost"`
	Port     int           `env:"PORT,default=8765"`
	GameType string        `env:"DEMO_GAME_TYPE,default=snake"`
	Player1  int64         `env:"DEMO_PLAYER1_ID,default=101"`
	Player2  int64         `env:"DEMO_PLAYER2_ID,default=202"`
	Timeout  time.Duration `env:"DEMO_TIMEOUT,default=10s"`
}

type serverMessage struct {
	Type    string          `json:"type"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func main() {
	// 1. Load config
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	url := fmt.Sprintf("ws://%s:%d/ws", config.Host, config.Port)

	// 2. Connect both players
	p1 := dial(url, config.Timeout)
	defer p1.Close()
	p2 := dial(url, config.Timeout)
	defer p2.Close()
	expect(p1, "welcome")
	expect(p2, "welcome")

	// 3. Create the session on the first connection
	send(p1, map[string]any{
		"action":     "create_game",
		"game_type":  config.GameType,
		"player1_id": config.Player1,
		"player2_id": config.Player2,
	})
	created := expect(p1, "game_created")
	var info struct {
		GameID string `json:"game_id"`
	}
	must(json.Unmarshal(created.Data, &info))
	banner(fmt.Sprintf("Session %s created (%s)", info.GameID, config.GameType))

	// 4. Seat both players
	send(p1, map[string]any{"action": "join", "player_id": config.Player1, "game_id": info.GameID})
	send(p2, map[string]any{"action": "join", "player_id": config.Player2, "game_id": info.GameID})
	expect(p1, "game_state")
	expect(p2, "game_state")
	expect(p1, "game_started")
	expect(p2, "game_started")
	banner("Both players seated, session active")

	// 5. Scripted exchange
	moves := demoMoves(config.GameType)
	for i, mv := range moves {
		conn := p1
		if i%2 == 1 {
			conn = p2
		}
		send(conn, map[string]any{"action": "move", "game_id": info.GameID, "move_data": mv})
		state := expect(p1, "game_state")
		printState(state.Data)
		drain(p2)
	}
	banner("Demo finished")
}

func demoMoves(gameType string) []map[string]any {
	switch gameType {
	case "pong":
		return []map[string]any{
			{"direction": "UP"}, {"direction": "DOWN"},
			{"direction": "UP"}, {"direction": "UP"},
		}
	case "tetris":
		return []map[string]any{
			{"action": "LEFT"}, {"action": "RIGHT"},
			{"action": "ROTATE"}, {"action": "DOWN"},
		}
	default:
		return []map[string]any{
			{"direction": "LEFT"}, {"direction": "LEFT"},
			{"direction": "DOWN"}, {"direction": "DOWN"},
		}
	}
}

func dial(url string, timeout time.Duration) *websocket.Conn {
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", url, err)
	}
	return conn
}

func send(conn *websocket.Conn, payload map[string]any) {
	must(conn.WriteJSON(payload))
}

// expect reads until a message of the wanted type arrives, failing hard on
// server errors so the demo never hangs on a broken scenario.
func expect(conn *websocket.Conn, wanted string) serverMessage {
	for {
		var msg serverMessage
		must(conn.ReadJSON(&msg))
		switch msg.Type {
		case wanted:
			return msg
		case "error":
			log.Fatalf("Server rejected request: %s", msg.Message)
		}
	}
}

// drain consumes one pending message without caring about its type, keeping
// the second connection's read buffer from filling up.
func drain(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg serverMessage
	_ = conn.ReadJSON(&msg)
	_ = conn.SetReadDeadline(time.Time{})
}

func printState(data json.RawMessage) {
	var snapshot struct {
		Status   string         `json:"status"`
		WinnerID *int64         `json:"winner_id"`
		State    map[string]any `json:"state"`
	}
	must(json.Unmarshal(data, &snapshot))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	table.Append([]string{"status", snapshot.Status})
	if snapshot.WinnerID != nil {
		table.Append([]string{"winner", fmt.Sprintf("%d", *snapshot.WinnerID)})
	}
	for _, key := range []string{"player1_score", "player2_score", "scores", "food", "ball_x", "ball_y", "player1_lines", "player2_lines"} {
		if value, ok := snapshot.State[key]; ok {
			table.Append([]string{key, fmt.Sprintf("%v", value)})
		}
	}
	table.Render()
	fmt.Println()
}

func banner(text string) {
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render("  ====== " + text + " ======"))
}

func must(err error) {
	if err != nil {
		log.Fatalf("Demo client error: %v", err)
	}
}
