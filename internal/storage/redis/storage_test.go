package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/crossfire-game/crossfire-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.RoomTTL = time.Hour
	cfg.SnapshotTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func testRoom(id string, code model.RoomCode) *model.Room {
	return &model.Room{
		ID:         id,
		Code:       code,
		HostName:   "Ada",
		Categories: []model.Category{model.CategoryScience},
		Language:   model.LanguageEnglish,
		PuzzleID:   1,
		Status:     model.RoomWaiting,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		UpdatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := testRoom("room-1", "ABCD")

	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
	s.Equal(room.Code, retrieved.Code)
	s.Equal(room.HostName, retrieved.HostName)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestGetRoomByCode() {
	room := testRoom("room-1", "WXYZ")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoomByCode(s.ctx, "WXYZ")
	s.Require().NoError(err)
	s.Equal("room-1", retrieved.ID)

	_, err = s.storage.GetRoomByCode(s.ctx, "QQQQ")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomCodeExists() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, testRoom("room-1", "ABCD")))

	exists, err := s.storage.RoomCodeExists(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.RoomCodeExists(s.ctx, "EFGH")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestDeleteRoomCleansEverything() {
	room := testRoom("room-1", "ABCD")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))
	s.Require().NoError(s.storage.AddPresence(s.ctx, "room-1", "user-1"))
	s.Require().NoError(s.storage.SaveSnapshot(s.ctx, "room-1", &model.SessionSnapshot{Mode: model.ModeMultiplayer}))

	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "room-1"))

	_, err := s.storage.GetRoom(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)

	exists, _ := s.storage.RoomCodeExists(s.ctx, "ABCD")
	s.False(exists)

	users, err := s.storage.ListPresence(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Empty(users)

	_, err = s.storage.GetSnapshot(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

func (s *StorageSuite) TestListRooms() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, testRoom("room-1", "AAAA")))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, testRoom("room-2", "BBBB")))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Len(rooms, 2)
}

func (s *StorageSuite) TestListRoomsSkipsExpired() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, testRoom("room-1", "AAAA")))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, testRoom("room-2", "BBBB")))

	s.mini.FastForward(2 * time.Hour)

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rooms)
}

func (s *StorageSuite) TestRoomExpires() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, testRoom("room-1", "ABCD")))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetRoom(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// Presence tests

func (s *StorageSuite) TestPresence() {
	s.Require().NoError(s.storage.AddPresence(s.ctx, "room-1", "user-1"))
	s.Require().NoError(s.storage.AddPresence(s.ctx, "room-1", "user-2"))
	s.Require().NoError(s.storage.AddPresence(s.ctx, "room-1", "user-1")) // idempotent

	users, err := s.storage.ListPresence(s.ctx, "room-1")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"user-1", "user-2"}, users)

	s.Require().NoError(s.storage.RemovePresence(s.ctx, "room-1", "user-1"))

	users, err = s.storage.ListPresence(s.ctx, "room-1")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"user-2"}, users)
}

// Snapshot tests

func (s *StorageSuite) TestSaveAndGetSnapshot() {
	snap := &model.SessionSnapshot{
		Mode: model.ModeMultiplayer,
		Sync: model.SyncState{
			Status:    model.StatusPlaying,
			TurnPhase: model.PhaseTyping,
			PuzzleID:  3,
		},
		UsedQuestionIDs: map[model.QuestionID]bool{"q1": true},
		RoomID:          "room-1",
		Role:            model.RoleHost,
	}

	s.Require().NoError(s.storage.SaveSnapshot(s.ctx, "room-1", snap))

	retrieved, err := s.storage.GetSnapshot(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.StatusPlaying, retrieved.Sync.Status)
	s.Equal(model.PhaseTyping, retrieved.Sync.TurnPhase)
	s.True(retrieved.UsedQuestionIDs["q1"])
}

func (s *StorageSuite) TestDeleteSnapshot() {
	s.Require().NoError(s.storage.SaveSnapshot(s.ctx, "room-1", &model.SessionSnapshot{}))
	s.Require().NoError(s.storage.DeleteSnapshot(s.ctx, "room-1"))

	_, err := s.storage.GetSnapshot(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}
