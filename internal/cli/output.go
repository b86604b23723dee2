package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
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
	case HealthResult:
		o.printHealthResult(v)
	case GameSummary:
		o.printGameSummary(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Room response type (matches API)
type Room struct {
	ID         string   `json:"id"`
	Code       string   `json:"code"`
	HostName   string   `json:"host_name"`
	GuestName  string   `json:"guest_name,omitempty"`
	Language   string   `json:"language"`
	Categories []string `json:"categories"`
	PuzzleID   int      `json:"puzzle_id,omitempty"`
	Status     string   `json:"status"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// GameSummary is the outcome of a simulated game
type GameSummary struct {
	PuzzleID       int            `json:"puzzle_id"`
	Status         string         `json:"status"`
	Scores         map[string]int `json:"scores"`
	Winner         string         `json:"winner,omitempty"`
	CompletedWords int            `json:"completed_words"`
	TotalWords     int            `json:"total_words"`
	ElapsedSeconds int            `json:"elapsed_seconds"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room %s (%s)\n", r.Code, r.Status)
	fmt.Printf("  Host:  %s\n", r.HostName)
	if r.GuestName != "" {
		fmt.Printf("  Guest: %s\n", r.GuestName)
	} else {
		fmt.Printf("  Guest: (open)\n")
	}
	fmt.Printf("  Language: %s\n", r.Language)
	if len(r.Categories) > 0 {
		fmt.Printf("  Categories: %s\n", strings.Join(r.Categories, ", "))
	}
	if r.PuzzleID != 0 {
		fmt.Printf("  Puzzle: %d\n", r.PuzzleID)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Server status: %s\n", h.Status)
}

func (o *Output) printGameSummary(g GameSummary) {
	fmt.Printf("Game %s on puzzle %d after %ds\n", g.Status, g.PuzzleID, g.ElapsedSeconds)
	fmt.Printf("  Words: %d/%d completed\n", g.CompletedWords, g.TotalWords)
	for name, score := range g.Scores {
		fmt.Printf("  %s: %d points\n", name, score)
	}
	if g.Winner != "" {
		fmt.Printf("  Winner: %s\n", g.Winner)
	}
}
