package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case JoinInfo:
		o.printJoinInfo(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Room response type (matches API)
type Room struct {
	ID           string     `json:"id"`
	GameType     string     `json:"game_type"`
	Status       string     `json:"status"`
	Players      []Player   `json:"players"`
	Scores       []Score    `json:"scores"`
	CurrentRound int        `json:"current_round,omitempty"`
	MaxRounds    int        `json:"max_rounds"`
	Questions    []Question `json:"questions,omitempty"`
	Phrase       string     `json:"phrase,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Player response type
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsHost      bool   `json:"is_host"`
}

// Score response type
type Score struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
	Submitted   bool   `json:"submitted"`
}

// Question response type
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// JoinInfo response type
type JoinInfo struct {
	RoomID      string `json:"room_id"`
	GameType    string `json:"game_type"`
	Status      string `json:"status"`
	PlayerCount int    `json:"player_count"`
	Capacity    int    `json:"capacity,omitempty"`
	Joinable    bool   `json:"joinable"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.ID)
	fmt.Printf("Game: %s\n", r.GameType)
	fmt.Printf("Status: %s\n", r.Status)
	if r.CurrentRound > 0 {
		fmt.Printf("Round: %d/%d\n", r.CurrentRound, r.MaxRounds)
	}
	if r.Phrase != "" {
		fmt.Printf("Phrase: %q\n", r.Phrase)
	}
	if len(r.Questions) > 0 {
		fmt.Printf("Questions: %d\n", len(r.Questions))
	}
	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		hostStr := ""
		if p.IsHost {
			hostStr = " [host]"
		}
		fmt.Printf("  - %s (%s)%s\n", p.DisplayName, p.ID, hostStr)
	}
	if len(r.Scores) > 0 {
		fmt.Println("Scores:")
		for _, s := range r.Scores {
			fmt.Printf("  %s: %d\n", s.DisplayName, s.Score)
		}
	}
}

func (o *Output) printJoinInfo(j JoinInfo) {
	fmt.Printf("Room: %s\n", j.RoomID)
	fmt.Printf("Game: %s\n", j.GameType)
	fmt.Printf("Status: %s\n", j.Status)
	if j.Capacity > 0 {
		fmt.Printf("Players: %d/%d\n", j.PlayerCount, j.Capacity)
	} else {
		fmt.Printf("Players: %d\n", j.PlayerCount)
	}
	if j.Joinable {
		fmt.Println("Joinable: yes")
	} else {
		fmt.Println("Joinable: no")
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
