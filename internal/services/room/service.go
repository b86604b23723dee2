package room

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crossfire-game/crossfire-go/internal/dependencies/clock"
	"github.com/crossfire-game/crossfire-go/internal/dependencies/random"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/storage"
)

const (
	// CodeLength is the number of characters in a join code
	CodeLength = 4

	// codeAlphabet omits the ambiguous characters I, O, 0 and 1
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 20

	// codeRetries bounds collision retries when generating a join code
	codeRetries = 3

	// StaleAfter is how long an untouched room survives before cleanup
	StaleAfter = 24 * time.Hour
)

// Service manages room lifecycle: creation with a unique join code,
// guest joins, leaves and stale-room cleanup
type Service struct {
	storage storage.Storage
	random  random.Random
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new room Service
func New(store storage.Storage, rnd random.Random, clk clock.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{storage: store, random: rnd, clock: clk, logger: logger}
}

// CreateParams carries the host's room settings
type CreateParams struct {
	HostName   string
	Categories []model.Category
	Language   model.Language
	PuzzleID   model.PuzzleID
}

// Create makes a room with a fresh join code. Code generation retries a
// bounded number of times on collision.
func (s *Service) Create(ctx context.Context, params CreateParams) (*model.Room, error) {
	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	room := &model.Room{
		ID:         s.random.String(idLength, idAlphabet),
		Code:       code,
		HostName:   params.HostName,
		Categories: params.Categories,
		Language:   params.Language,
		PuzzleID:   params.PuzzleID,
		Status:     model.RoomWaiting,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRoomCreate, err)
	}

	s.logger.Info("room created", "room_id", room.ID, "code", string(room.Code))
	return room, nil
}

func (s *Service) generateCode(ctx context.Context) (model.RoomCode, error) {
	for i := 0; i < codeRetries; i++ {
		code := model.RoomCode(s.random.String(CodeLength, codeAlphabet))
		exists, err := s.storage.RoomCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", model.ErrCodeCollision
}

// Join seats a guest in the room with the given code. A taken guest
// slot rejects with ErrRoomFull.
func (s *Service) Join(ctx context.Context, code model.RoomCode, guestName string) (*model.Room, error) {
	room, err := s.storage.GetRoomByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.HasGuest() {
		return nil, model.ErrRoomFull
	}

	room.GuestName = guestName
	room.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("guest joined room", "room_id", room.ID, "guest", guestName)
	return room, nil
}

// Leave removes a participant. The host leaving tears the room down;
// the guest leaving frees the guest slot.
func (s *Service) Leave(ctx context.Context, roomID string, role model.PlayerRole) error {
	room, err := s.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if role == model.RoleHost {
		s.logger.Info("host left, deleting room", "room_id", roomID)
		return s.storage.DeleteRoom(ctx, roomID)
	}

	room.GuestName = ""
	room.UpdatedAt = s.clock.Now()
	s.logger.Info("guest left room", "room_id", roomID)
	return s.storage.SaveRoom(ctx, room)
}

// Get returns a room by id
func (s *Service) Get(ctx context.Context, roomID string) (*model.Room, error) {
	return s.storage.GetRoom(ctx, roomID)
}

// GetByCode returns a room by its join code
func (s *Service) GetByCode(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return s.storage.GetRoomByCode(ctx, code)
}

// SetStatus updates the room's lifecycle status
func (s *Service) SetStatus(ctx context.Context, roomID string, status model.RoomStatus) error {
	room, err := s.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	room.Status = status
	room.UpdatedAt = s.clock.Now()
	return s.storage.SaveRoom(ctx, room)
}

// CleanupStale deletes rooms untouched for longer than maxAge and
// returns how many were removed
func (s *Service) CleanupStale(ctx context.Context, maxAge time.Duration) (int, error) {
	rooms, err := s.storage.ListRooms(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.clock.Now().Add(-maxAge)
	removed := 0
	for _, room := range rooms {
		if room.UpdatedAt.After(cutoff) {
			continue
		}
		if err := s.storage.DeleteRoom(ctx, room.ID); err != nil {
			s.logger.Warn("failed to delete stale room", "room_id", room.ID, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("cleaned up stale rooms", "count", removed)
	}
	return removed, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Create(ctx context.Context, params CreateParams) (*model.Room, error)
	Join(ctx context.Context, code model.RoomCode, guestName string) (*model.Room, error)
	Leave(ctx context.Context, roomID string, role model.PlayerRole) error
	Get(ctx context.Context, roomID string) (*model.Room, error)
	GetByCode(ctx context.Context, code model.RoomCode) (*model.Room, error)
	SetStatus(ctx context.Context, roomID string, status model.RoomStatus) error
	CleanupStale(ctx context.Context, maxAge time.Duration) (int, error)
}

var _ ServiceInterface = (*Service)(nil)
