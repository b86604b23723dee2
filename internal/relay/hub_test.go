package relay_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/crossfire-game/crossfire-go/internal/gamesync"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/relay"
	"github.com/crossfire-game/crossfire-go/internal/storage/memory"
	"github.com/crossfire-game/crossfire-go/internal/testutil"
	"github.com/crossfire-game/crossfire-go/internal/transport"
)

type RelayTestSuite struct {
	suite.Suite

	storage *memory.Storage
	manager *relay.HubManager
	hub     *relay.Hub

	hostPeer  transport.Bus
	guestPeer transport.Bus
}

func (s *RelayTestSuite) SetupTest() {
	s.storage = memory.New()
	s.manager = relay.NewHubManager(s.storage, testutil.NopLogger())
	s.hub = s.manager.GetOrCreateHub("room-1")

	hostEnd, hostPeer := transport.NewMemoryPair()
	guestEnd, guestPeer := transport.NewMemoryPair()
	s.hostPeer = hostPeer
	s.guestPeer = guestPeer

	s.hub.Attach("user-host", model.RoleHost, hostEnd)
	s.hub.Attach("user-guest", model.RoleGuest, guestEnd)
	s.waitClientCount(2)
}

func (s *RelayTestSuite) TearDownTest() {
	s.manager.RemoveHub("room-1")
	s.hostPeer.Close()
	s.guestPeer.Close()
}

func (s *RelayTestSuite) waitClientCount(n int) {
	deadline := time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() != n {
		if time.Now().After(deadline) {
			s.FailNowf("timed out", "client count never reached %d", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// nextEnvelope reads frames from a peer until one of the wanted type
// arrives, skipping interleaved presence traffic
func (s *RelayTestSuite) nextEnvelope(bus transport.Bus, want gamesync.MessageType) *gamesync.Envelope {
	deadline := time.After(2 * time.Second)
	for {
		select {
		case frame, ok := <-bus.Receive():
			s.Require().True(ok, "bus closed while waiting for %s", want)
			env, err := gamesync.Decode(frame)
			s.Require().NoError(err)
			if env.Type == want {
				return env
			}
		case <-deadline:
			s.FailNowf("timed out", "no %s envelope arrived", want)
			return nil
		}
	}
}

func (s *RelayTestSuite) TestFrameRelayedToOtherClient() {
	frame, err := gamesync.Encode(&gamesync.Envelope{
		Type:     gamesync.MessageMove,
		RoomID:   "room-1",
		SenderID: "user-guest",
		Role:     model.RoleGuest,
		Move:     &model.Move{Type: model.MoveSelectWord, WordID: 2},
	})
	s.Require().NoError(err)
	s.Require().NoError(s.guestPeer.Send(context.Background(), frame))

	env := s.nextEnvelope(s.hostPeer, gamesync.MessageMove)
	s.Equal("user-guest", env.SenderID)
	s.Equal(model.WordID(2), env.Move.WordID)
}

func (s *RelayTestSuite) TestSenderDoesNotReceiveOwnFrame() {
	frame, err := gamesync.Encode(&gamesync.Envelope{
		Type:     gamesync.MessageSync,
		RoomID:   "room-1",
		SenderID: "user-host",
		Role:     model.RoleHost,
		Sync:     &model.SyncState{PuzzleID: 1, Status: model.StatusPlaying},
	})
	s.Require().NoError(err)
	s.Require().NoError(s.hostPeer.Send(context.Background(), frame))

	// The guest sees the sync; the host sees nothing but presence
	s.nextEnvelope(s.guestPeer, gamesync.MessageSync)
	select {
	case frame := <-s.hostPeer.Receive():
		env, err := gamesync.Decode(frame)
		s.Require().NoError(err)
		s.Equal(gamesync.MessagePresence, env.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func (s *RelayTestSuite) TestPresenceBroadcastOnJoinAndLeave() {
	env := s.nextEnvelope(s.hostPeer, gamesync.MessagePresence)
	s.Require().NotNil(env.Presence)
	s.NotEmpty(env.Presence.UserIDs)

	s.guestPeer.Close()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case frame, ok := <-s.hostPeer.Receive():
			s.Require().True(ok)
			env, err := gamesync.Decode(frame)
			s.Require().NoError(err)
			if env.Type == gamesync.MessagePresence && env.Presence.Left == "user-guest" {
				s.NotContains(env.Presence.UserIDs, "user-guest")
				return
			}
		case <-deadline:
			s.FailNow("no leave presence arrived")
			return
		}
	}
}

func (s *RelayTestSuite) TestPresencePersisted() {
	deadline := time.Now().Add(2 * time.Second)
	for {
		present, err := s.storage.ListPresence(context.Background(), "room-1")
		s.Require().NoError(err)
		if len(present) == 2 {
			s.ElementsMatch([]string{"user-host", "user-guest"}, present)
			return
		}
		if time.Now().After(deadline) {
			s.FailNow("presence never persisted")
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (s *RelayTestSuite) TestManagerReusesHub() {
	again := s.manager.GetOrCreateHub("room-1")
	s.Same(s.hub, again)
	s.Nil(s.manager.GetHub("room-missing"))
}

func (s *RelayTestSuite) TestCleanupEmptyHubs() {
	empty := s.manager.GetOrCreateHub("room-empty")
	s.Require().Equal(0, empty.ClientCount())

	s.manager.CleanupEmptyHubs()
	s.Nil(s.manager.GetHub("room-empty"))
	s.NotNil(s.manager.GetHub("room-1"))
}

func TestRelayTestSuite(t *testing.T) {
	suite.Run(t, new(RelayTestSuite))
}
