package memory

import (
	"context"
	"sync"

	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface,
// suitable for tests and single-process deployments
type Storage struct {
	mu sync.RWMutex

	rooms     map[string]*model.Room
	codeIndex map[model.RoomCode]string
	presence  map[string]map[string]bool
	snapshots map[string]*model.SessionSnapshot
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:     make(map[string]*model.Room),
		codeIndex: make(map[model.RoomCode]string),
		presence:  make(map[string]map[string]bool),
		snapshots: make(map[string]*model.SessionSnapshot),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *room
	s.rooms[room.ID] = &copied
	s.codeIndex[room.Code] = room.ID
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	copied := *room
	return &copied, nil
}

func (s *Storage) GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.codeIndex[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	copied := *room
	return &copied, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok := s.rooms[id]; ok {
		delete(s.codeIndex, room.Code)
	}
	delete(s.rooms, id)
	delete(s.presence, id)
	delete(s.snapshots, id)
	return nil
}

func (s *Storage) RoomCodeExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.codeIndex[code]
	return ok, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]*model.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		copied := *room
		rooms = append(rooms, &copied)
	}
	return rooms, nil
}

// Presence operations

func (s *Storage) AddPresence(ctx context.Context, roomID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.presence[roomID] == nil {
		s.presence[roomID] = make(map[string]bool)
	}
	s.presence[roomID][userID] = true
	return nil
}

func (s *Storage) RemovePresence(ctx context.Context, roomID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.presence[roomID], userID)
	return nil
}

func (s *Storage) ListPresence(ctx context.Context, roomID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.presence[roomID]))
	for id := range s.presence[roomID] {
		users = append(users, id)
	}
	return users, nil
}

// Session snapshot operations

func (s *Storage) SaveSnapshot(ctx context.Context, roomID string, snap *model.SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *snap
	s.snapshots[roomID] = &copied
	return nil
}

func (s *Storage) GetSnapshot(ctx context.Context, roomID string) (*model.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[roomID]
	if !ok {
		return nil, model.ErrSnapshotNotFound
	}
	copied := *snap
	return &copied, nil
}

func (s *Storage) DeleteSnapshot(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshots, roomID)
	return nil
}
