package redis

import (
	"fmt"

	"github.com/crossfire-game/crossfire-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "crossfire"

// roomKey returns the Redis key for a Room
func roomKey(id string) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// codeIndexKey returns the Redis key for the room_code -> room_id index
func codeIndexKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:idx:code:%s", keyPrefix, code)
}

// roomsIndexKey returns the Redis key for the SET of all room ids
func roomsIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// presenceKey returns the Redis key for the SET of user ids in a room
func presenceKey(roomID string) string {
	return fmt.Sprintf("%s:presence:%s", keyPrefix, roomID)
}

// snapshotKey returns the Redis key for a room's session snapshot
func snapshotKey(roomID string) string {
	return fmt.Sprintf("%s:snapshot:%s", keyPrefix, roomID)
}
