package gamesync

import (
	"encoding/json"
	"fmt"

	"github.com/crossfire-game/crossfire-go/internal/model"
)

// MessageType discriminates envelopes on the bus
type MessageType string

const (
	// MessageMove carries a guest intent to the host
	MessageMove MessageType = "move"

	// MessageSync carries the host's full state snapshot to the guest
	MessageSync MessageType = "sync"

	// MessageLaunch announces the game start: settings, puzzle and the
	// countdown before play begins
	MessageLaunch MessageType = "launch"

	// MessagePresence announces who is connected to the room
	MessagePresence MessageType = "presence"
)

// Launch is the host's fire-and-forget game-start announcement. It is
// published before the countdown so the guest can load the puzzle while
// the countdown runs.
type Launch struct {
	PuzzleID   model.PuzzleID   `json:"puzzle_id"`
	Language   model.Language   `json:"language"`
	Categories []model.Category `json:"categories"`
	HostName   string           `json:"host_name"`
	GuestName  string           `json:"guest_name"`
	Countdown  int              `json:"countdown_seconds"`
}

// Presence lists the user ids currently connected, with the delta that
// triggered the update
type Presence struct {
	UserIDs []string `json:"user_ids"`
	Joined  string   `json:"joined,omitempty"`
	Left    string   `json:"left,omitempty"`
}

// Envelope is the single frame format on the bus. Exactly one payload
// field is set, matching Type.
type Envelope struct {
	Type     MessageType      `json:"type"`
	RoomID   string           `json:"room_id"`
	SenderID string           `json:"sender_id,omitempty"`
	Role     model.PlayerRole `json:"role,omitempty"`

	Move     *model.Move      `json:"move,omitempty"`
	Sync     *model.SyncState `json:"sync,omitempty"`
	Launch   *Launch          `json:"launch,omitempty"`
	Presence *Presence        `json:"presence,omitempty"`
}

// Encode serializes an envelope for the bus
func Encode(env *Envelope) ([]byte, error) {
	return json.Marshal(env)
}

// Decode parses an envelope off the bus and checks its payload matches
// its type
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}

	switch env.Type {
	case MessageMove:
		if env.Move == nil {
			return nil, fmt.Errorf("move envelope without move payload")
		}
	case MessageSync:
		if env.Sync == nil {
			return nil, fmt.Errorf("sync envelope without sync payload")
		}
	case MessageLaunch:
		if env.Launch == nil {
			return nil, fmt.Errorf("launch envelope without launch payload")
		}
	case MessagePresence:
		if env.Presence == nil {
			return nil, fmt.Errorf("presence envelope without presence payload")
		}
	default:
		return nil, fmt.Errorf("unknown envelope type %q", env.Type)
	}
	return &env, nil
}
