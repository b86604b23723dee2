package response

import (
	"time"

	"github.com/crossfire-game/crossfire-go/internal/model"
)

// Room represents a room in API responses
type Room struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	HostName   string    `json:"host_name"`
	GuestName  string    `json:"guest_name,omitempty"`
	Language   string    `json:"language"`
	Categories []string  `json:"categories"`
	PuzzleID   int       `json:"puzzle_id,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// RoomFromModel converts a model.Room to a response Room
func RoomFromModel(r *model.Room) Room {
	categories := make([]string, len(r.Categories))
	for i, c := range r.Categories {
		categories[i] = string(c)
	}
	return Room{
		ID:         r.ID,
		Code:       string(r.Code),
		HostName:   r.HostName,
		GuestName:  r.GuestName,
		Language:   string(r.Language),
		Categories: categories,
		PuzzleID:   int(r.PuzzleID),
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
	}
}

// Health is the response for GET /health
type Health struct {
	Status string `json:"status"`
}
