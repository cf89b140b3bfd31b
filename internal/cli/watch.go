package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		jsonOutput bool
		playerName string
	)

	cmd := &cobra.Command{
		Use:   "watch <code>",
		Short: "Join a room and stream its events over websocket",
		Long: `Connect to the server's websocket endpoint, join the room, and print
every event the room broadcasts.

Events include:
  - player-joined / player-left: Roster changed
  - game-started: Game has begun
  - score-update: A player's score changed
  - all-players-submitted: Next-round countdown started
  - round-updated: New round and phrase
  - move-made / game-over / game-draw: Tic-tac-toe progress
  - game-completed: Final standings

Press Ctrl+C to disconnect. Note that joining makes this connection a
player in the room; disconnecting removes it again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchRoom(args[0], playerName, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().StringVar(&playerName, "name", "", "Display name to join with (default server-generated)")

	return cmd
}

// wireEvent is the server's outbound message envelope
type wireEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// wireCommand is the inbound message envelope
type wireCommand struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func watchRoom(code, playerName string, jsonOutput bool) error {
	wsURL, err := socketURL(cfg.ServerURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	join := wireCommand{
		Type: "join-room",
		Payload: map[string]string{
			"room_id":     code,
			"player_name": playerName,
		},
	}
	if err := conn.WriteJSON(join); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	if !jsonOutput {
		fmt.Printf("Connected to room %s\n", code)
	}

	// Close the socket on Ctrl+C so the blocked read returns
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	interrupted := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			close(interrupted)
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = conn.Close()
		case <-done:
		}
	}()
	defer close(done)

	for {
		var ev wireEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if !jsonOutput {
				fmt.Println("\nDisconnected")
			}
			select {
			case <-interrupted:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}
		printEvent(ev, jsonOutput)
	}
}

// socketURL derives the websocket endpoint from the HTTP server URL
func socketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"
	return u.String(), nil
}

func printEvent(ev wireEvent, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		line := struct {
			Time    time.Time       `json:"time"`
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload,omitempty"`
		}{now, ev.Type, ev.Payload}
		data, _ := json.Marshal(line)
		fmt.Println(string(data))
		return
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	display := string(ev.Payload)
	if len(display) > 100 {
		display = display[:100] + "..."
	}
	display = strings.ReplaceAll(display, "\n", " ")
	fmt.Printf("[%s] %s: %s\n", timestamp, ev.Type, display)
}
