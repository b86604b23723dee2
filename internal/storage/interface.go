package storage

import (
	"context"

	"github.com/crossfire-game/crossfire-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id string) (*model.Room, error)
	GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, id string) error
	RoomCodeExists(ctx context.Context, code model.RoomCode) (bool, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// Presence operations: the set of user ids currently in a room
	AddPresence(ctx context.Context, roomID, userID string) error
	RemovePresence(ctx context.Context, roomID, userID string) error
	ListPresence(ctx context.Context, roomID string) ([]string, error)

	// Session snapshot operations
	SaveSnapshot(ctx context.Context, roomID string, snap *model.SessionSnapshot) error
	GetSnapshot(ctx context.Context, roomID string) (*model.SessionSnapshot, error)
	DeleteSnapshot(ctx context.Context, roomID string) error
}
