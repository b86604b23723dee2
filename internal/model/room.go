package model

import "time"

// RoomCode is the short human-readable code guests type to join
type RoomCode string

// RoomStatus tracks the room's coarse lifecycle
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"  // host present, guest slot open
	RoomPlaying  RoomStatus = "playing"  // game in progress
	RoomFinished RoomStatus = "finished" // game over, room may host a rematch
)

// Room is the persistent bootstrap record for a networked game
type Room struct {
	ID         string     `json:"id"`
	Code       RoomCode   `json:"code"`
	HostName   string     `json:"host_name"`
	GuestName  string     `json:"guest_name,omitempty"`
	Categories []Category `json:"categories"`
	Language   Language   `json:"language"`
	PuzzleID   PuzzleID   `json:"puzzle_id,omitempty"`
	Status     RoomStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// HasGuest reports whether the guest slot is taken
func (r *Room) HasGuest() bool {
	return r.GuestName != ""
}
