package room_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/crossfire-game/crossfire-go/internal/dependencies/mocks"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/room"
	"github.com/crossfire-game/crossfire-go/internal/storage/memory"
)

type ServiceTestSuite struct {
	suite.Suite

	ctx     context.Context
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	storage *memory.Storage
	service *room.Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.storage = memory.New()
	s.service = room.New(s.storage, s.random, s.clock, nil)
}

func (s *ServiceTestSuite) create(id string, code string) *model.Room {
	s.random.QueueString(code, id)
	created, err := s.service.Create(s.ctx, room.CreateParams{
		HostName: "Ada",
		Language: model.LanguageEnglish,
		PuzzleID: 1,
	})
	s.Require().NoError(err)
	return created
}

func (s *ServiceTestSuite) TestCreate() {
	created := s.create("room-1", "ABCD")

	s.Equal("room-1", created.ID)
	s.Equal(model.RoomCode("ABCD"), created.Code)
	s.Equal(model.RoomWaiting, created.Status)
	s.Equal(s.clock.Now(), created.CreatedAt)

	stored, err := s.storage.GetRoomByCode(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.Equal(created.ID, stored.ID)
}

func (s *ServiceTestSuite) TestCreateRetriesOnCodeCollision() {
	s.create("room-1", "ABCD")

	// First two code draws collide, third succeeds
	s.random.QueueString("ABCD", "ABCD", "EFGH", "room-2")
	created, err := s.service.Create(s.ctx, room.CreateParams{HostName: "Grace"})
	s.Require().NoError(err)
	s.Equal(model.RoomCode("EFGH"), created.Code)
}

func (s *ServiceTestSuite) TestCreateGivesUpAfterRetries() {
	s.create("room-1", "ABCD")

	s.random.QueueString("ABCD", "ABCD", "ABCD")
	_, err := s.service.Create(s.ctx, room.CreateParams{HostName: "Grace"})
	s.ErrorIs(err, model.ErrCodeCollision)
}

func (s *ServiceTestSuite) TestJoin() {
	s.create("room-1", "ABCD")

	joined, err := s.service.Join(s.ctx, "ABCD", "Grace")
	s.Require().NoError(err)
	s.Equal("Grace", joined.GuestName)
	s.True(joined.HasGuest())
}

func (s *ServiceTestSuite) TestJoinUnknownCode() {
	_, err := s.service.Join(s.ctx, "QQQQ", "Grace")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ServiceTestSuite) TestJoinFullRoom() {
	s.create("room-1", "ABCD")

	_, err := s.service.Join(s.ctx, "ABCD", "Grace")
	s.Require().NoError(err)

	_, err = s.service.Join(s.ctx, "ABCD", "Alan")
	s.ErrorIs(err, model.ErrRoomFull)
}

func (s *ServiceTestSuite) TestGuestLeaveFreesSlot() {
	created := s.create("room-1", "ABCD")
	_, err := s.service.Join(s.ctx, "ABCD", "Grace")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Leave(s.ctx, created.ID, model.RoleGuest))

	got, err := s.service.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(got.HasGuest())
}

func (s *ServiceTestSuite) TestHostLeaveDeletesRoom() {
	created := s.create("room-1", "ABCD")

	s.Require().NoError(s.service.Leave(s.ctx, created.ID, model.RoleHost))

	_, err := s.service.Get(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ServiceTestSuite) TestSetStatus() {
	created := s.create("room-1", "ABCD")

	s.Require().NoError(s.service.SetStatus(s.ctx, created.ID, model.RoomPlaying))

	got, err := s.service.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomPlaying, got.Status)
}

func (s *ServiceTestSuite) TestCleanupStale() {
	old := s.create("room-1", "ABCD")

	s.clock.Set(s.clock.Now().Add(25 * time.Hour))
	fresh := s.create("room-2", "EFGH")

	removed, err := s.service.CleanupStale(s.ctx, room.StaleAfter)
	s.Require().NoError(err)
	s.Equal(1, removed)

	_, err = s.service.Get(s.ctx, old.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)

	_, err = s.service.Get(s.ctx, fresh.ID)
	s.NoError(err)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
