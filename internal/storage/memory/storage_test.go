package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/crossfire-game/crossfire-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func testRoom(id string, code model.RoomCode) *model.Room {
	return &model.Room{
		ID:        id,
		Code:      code,
		HostName:  "Ada",
		Language:  model.LanguageEnglish,
		Status:    model.RoomWaiting,
		CreatedAt: time.Now(),
	}
}

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := testRoom("room-1", "ABCD")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(room.Code, retrieved.Code)

	// Stored copy is isolated from the caller's struct
	room.HostName = "mutated"
	retrieved, err = s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal("Ada", retrieved.HostName)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestGetRoomByCode() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, testRoom("room-1", "WXYZ")))

	retrieved, err := s.storage.GetRoomByCode(s.ctx, "WXYZ")
	s.Require().NoError(err)
	s.Equal("room-1", retrieved.ID)
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
	s.Require().NoError(s.storage.SaveRoom(s.ctx, testRoom("room-1", "ABCD")))
	s.Require().NoError(s.storage.AddPresence(s.ctx, "room-1", "user-1"))
	s.Require().NoError(s.storage.SaveSnapshot(s.ctx, "room-1", &model.SessionSnapshot{}))

	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "room-1"))

	_, err := s.storage.GetRoom(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)

	exists, _ := s.storage.RoomCodeExists(s.ctx, "ABCD")
	s.False(exists)

	users, _ := s.storage.ListPresence(s.ctx, "room-1")
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

func (s *StorageSuite) TestPresence() {
	s.Require().NoError(s.storage.AddPresence(s.ctx, "room-1", "user-1"))
	s.Require().NoError(s.storage.AddPresence(s.ctx, "room-1", "user-2"))
	s.Require().NoError(s.storage.AddPresence(s.ctx, "room-1", "user-1"))

	users, err := s.storage.ListPresence(s.ctx, "room-1")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"user-1", "user-2"}, users)

	s.Require().NoError(s.storage.RemovePresence(s.ctx, "room-1", "user-1"))

	users, err = s.storage.ListPresence(s.ctx, "room-1")
	s.Require().NoError(err)
	s.ElementsMatch([]string{"user-2"}, users)
}

func (s *StorageSuite) TestSnapshotRoundTrip() {
	snap := &model.SessionSnapshot{
		Mode: model.ModeMultiplayer,
		Sync: model.SyncState{Status: model.StatusPlaying, PuzzleID: 2},
	}
	s.Require().NoError(s.storage.SaveSnapshot(s.ctx, "room-1", snap))

	retrieved, err := s.storage.GetSnapshot(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(model.PuzzleID(2), retrieved.Sync.PuzzleID)

	s.Require().NoError(s.storage.DeleteSnapshot(s.ctx, "room-1"))
	_, err = s.storage.GetSnapshot(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}
