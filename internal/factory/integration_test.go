package factory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/crossfire-game/crossfire-go/internal/factory"
	"github.com/crossfire-game/crossfire-go/internal/gamesync"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/game"
	"github.com/crossfire-game/crossfire-go/internal/services/room"
	"github.com/crossfire-game/crossfire-go/internal/transport"
)

type IntegrationTestSuite struct {
	suite.Suite

	app *factory.TestApp
}

func (s *IntegrationTestSuite) SetupTest() {
	s.app = factory.NewTestApp()
}

// typeWord fills every non-prefilled cell of the word with its answer
func (s *IntegrationTestSuite) typeWord(session *game.Session, actor model.PlayerIndex, p *model.Puzzle, id model.WordID) {
	w := p.WordByID(id)
	s.Require().NotNil(w)
	for _, cell := range w.Cells() {
		if p.Grid.PrefilledLetter(cell) != "" {
			continue
		}
		s.Require().NoError(session.InputCell(actor, cell.Key(), w.LetterAt(cell)))
	}
}

func (s *IntegrationTestSuite) TestSoloGameFullTurn() {
	session, runner, err := s.app.NewSoloGame(factory.SoloGameParams{
		PlayerName: "Ada",
		Language:   model.LanguageEnglish,
	})
	s.Require().NoError(err)
	defer session.Close()
	defer runner.Stop()

	session.Start()
	state := session.State()
	s.Equal(model.StatusPlaying, state.Status)
	s.Equal(model.ModeSolo, state.Mode)
	s.Equal("Ada", state.Players[0].Name)
	s.NotEmpty(state.Players[1].Name)

	p, err := s.app.PuzzleService.GetByID(model.LanguageEnglish, state.PuzzleID)
	s.Require().NoError(err)
	wordID := p.Words[0].ID

	s.Require().NoError(session.SelectWord(model.PlayerOne, wordID))
	s.typeWord(session, model.PlayerOne, p, wordID)
	s.Require().NoError(session.SubmitWord(model.PlayerOne, wordID))

	state = session.State()
	s.Require().NotNil(state.CurrentQuestion, "completing a word draws a question")

	s.Require().NoError(session.SubmitAnswer(model.PlayerOne, state.CurrentQuestion.Answer, false))

	state = session.State()
	s.Require().NotNil(state.LastFeedback)
	s.True(state.LastFeedback.IsCorrect)
	s.Positive(state.Players[0].Score)
	s.Contains(state.CompletedWordIDs, wordID)
}

func (s *IntegrationTestSuite) TestMultiplayerEndToEnd() {
	s.app.MockRandom.QueueString("ABCD", "room-id-1")
	created, err := s.app.RoomService.Create(context.Background(), room.CreateParams{
		HostName: "Ada",
		Language: model.LanguageEnglish,
	})
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ABCD"), created.Code)

	_, err = s.app.RoomService.Join(context.Background(), created.Code, "Grace")
	s.Require().NoError(err)

	p, err := s.app.PuzzleService.GetByID(model.LanguageEnglish, 1)
	s.Require().NoError(err)

	hostSession := game.NewSession(game.Config{
		Mode:        model.ModeMultiplayer,
		Puzzle:      p,
		Language:    model.LanguageEnglish,
		PlayerNames: [2]string{"Ada", "Grace"},
		Scoring:     s.app.ScoringService,
		Questions:   s.app.QuestionService,
		Puzzles:     s.app.PuzzleService,
		Clock:       s.app.Clock,
	})
	defer hostSession.Close()
	hostSession.SetRoom(created.ID, string(created.Code), model.RoleHost)

	hostBus, guestBus := transport.NewMemoryPair()
	guestStates := make(chan *model.GameState, 32)

	host := gamesync.NewHost(gamesync.HostConfig{
		Session: hostSession,
		Bus:     hostBus,
		RoomID:  created.ID,
		UserID:  "user-host",
	})
	guest := gamesync.NewGuest(gamesync.GuestConfig{
		Bus:      guestBus,
		Puzzles:  s.app.PuzzleService,
		RoomID:   created.ID,
		UserID:   "user-guest",
		Language: model.LanguageEnglish,
		OnChange: func(st *model.GameState) { guestStates <- st },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = host.Run(ctx) }()
	go func() { _ = guest.Run(ctx) }()

	s.Require().NoError(host.SendLaunch(ctx, &gamesync.Launch{
		PuzzleID:  p.ID,
		Language:  model.LanguageEnglish,
		HostName:  "Ada",
		GuestName: "Grace",
		Countdown: 3,
	}))

	hostSession.Start()
	wordID := p.Words[0].ID
	s.Require().NoError(hostSession.SelectWord(model.PlayerOne, wordID))
	s.typeWord(hostSession, model.PlayerOne, p, wordID)
	s.Require().NoError(hostSession.SubmitWord(model.PlayerOne, wordID))

	st := s.waitGuestState(guestStates, func(st *model.GameState) bool {
		return st.CurrentQuestion != nil
	})
	s.Equal(model.PhaseQuestion, st.TurnPhase)

	s.Require().NoError(hostSession.SubmitAnswer(model.PlayerOne, st.CurrentQuestion.Answer, false))

	// The feedback timer hands the turn to the guest
	s.app.MockClock.Advance(5 * time.Second)
	st = s.waitGuestState(guestStates, func(st *model.GameState) bool {
		return st.CurrentTurn == model.PlayerTwo && st.TurnPhase == model.PhaseSelecting
	})
	s.Contains(st.CompletedWordIDs, wordID)

	// Now the guest acts through the move channel
	guestWordID := p.Words[1].ID
	s.Require().NoError(guest.SendMove(ctx, &model.Move{Type: model.MoveSelectWord, WordID: guestWordID}))
	st = s.waitGuestState(guestStates, func(st *model.GameState) bool {
		return st.SelectedWordID != nil && *st.SelectedWordID == guestWordID
	})
	s.Equal(model.PhaseTyping, st.TurnPhase)
}

func (s *IntegrationTestSuite) waitGuestState(ch chan *model.GameState, pred func(*model.GameState) bool) *model.GameState {
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-ch:
			if pred(st) {
				return st
			}
		case <-deadline:
			s.FailNow("timed out waiting for guest state")
			return nil
		}
	}
}

func (s *IntegrationTestSuite) TestSessionPersistenceRoundTrip() {
	session, runner, err := s.app.NewSoloGame(factory.SoloGameParams{
		PlayerName: "Ada",
		Language:   model.LanguageEnglish,
	})
	s.Require().NoError(err)
	defer session.Close()
	defer runner.Stop()

	session.Start()
	state := session.State()
	p, err := s.app.PuzzleService.GetByID(model.LanguageEnglish, state.PuzzleID)
	s.Require().NoError(err)
	s.Require().NoError(session.SelectWord(model.PlayerOne, p.Words[0].ID))
	s.Require().NoError(session.InputCell(model.PlayerOne, p.Words[0].Anchor().Key(), "X"))

	ctx := context.Background()
	s.Require().NoError(s.app.SaveSession(ctx, "room-1", session))

	restored, restoredRunner, err := s.app.NewSoloGame(factory.SoloGameParams{
		PlayerName: "Ada",
		Language:   model.LanguageEnglish,
		PuzzleID:   state.PuzzleID,
	})
	s.Require().NoError(err)
	defer restored.Close()
	defer restoredRunner.Stop()

	s.Require().NoError(s.app.RestoreSession(ctx, "room-1", restored))

	got := restored.State()
	s.Equal(model.StatusPlaying, got.Status)
	s.Equal(state.PuzzleID, got.PuzzleID)
	s.Equal("X", got.CellInputs[p.Words[0].Anchor().Key()])
	s.Equal(model.PhaseTyping, got.TurnPhase)
}

func (s *IntegrationTestSuite) TestSoloGamePersistsAutomatically() {
	session, runner, err := s.app.NewSoloGame(factory.SoloGameParams{
		PlayerName: "Ada",
		Language:   model.LanguageEnglish,
	})
	s.Require().NoError(err)
	defer session.Close()
	defer runner.Stop()

	session.Start()
	state := session.State()
	p, err := s.app.PuzzleService.GetByID(model.LanguageEnglish, state.PuzzleID)
	s.Require().NoError(err)
	s.Require().NoError(session.SelectWord(model.PlayerOne, p.Words[0].ID))

	snap, err := s.app.Storage.GetSnapshot(context.Background(), factory.SoloSessionKey)
	s.Require().NoError(err)
	s.Equal(model.StatusPlaying, snap.Sync.Status)
	s.Require().NotNil(snap.SelectedCell)
	s.Equal(p.Words[0].Anchor(), *snap.SelectedCell)
}

func (s *IntegrationTestSuite) TestPersistenceClearedOnFinish() {
	p := &model.Puzzle{
		ID:    99,
		Title: "Tiny",
		Grid:  model.Grid{Rows: 1, Cols: 3},
		Words: []model.Word{
			{ID: 1, Answer: "CAT", Clue: "Feline", Category: model.CategoryScience, Direction: model.DirectionAcross},
		},
	}
	session := game.NewSession(game.Config{
		Mode:        model.ModeSolo,
		Puzzle:      p,
		Language:    model.LanguageEnglish,
		PlayerNames: [2]string{"Ada", "Grace"},
		Scoring:     s.app.ScoringService,
		Questions:   s.app.QuestionService,
		Puzzles:     s.app.PuzzleService,
		Clock:       s.app.Clock,
	})
	defer session.Close()
	s.app.AttachPersistence("tiny-game", session)

	session.Start()
	s.Require().NoError(session.SelectWord(model.PlayerOne, 1))
	s.typeWord(session, model.PlayerOne, p, 1)
	s.Require().NoError(session.SubmitWord(model.PlayerOne, 1))

	ctx := context.Background()
	snap, err := s.app.Storage.GetSnapshot(ctx, "tiny-game")
	s.Require().NoError(err)
	s.Equal(model.StatusPlaying, snap.Sync.Status)

	state := session.State()
	s.Require().NotNil(state.CurrentQuestion)
	s.Require().NoError(session.SubmitAnswer(model.PlayerOne, state.CurrentQuestion.Answer, false))

	// Feedback elapses; the only word is done, so the game finishes and
	// the snapshot is cleared
	s.app.MockClock.Advance(5 * time.Second)
	s.Equal(model.StatusFinished, session.State().Status)

	_, err = s.app.Storage.GetSnapshot(ctx, "tiny-game")
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

func (s *IntegrationTestSuite) TestRestoreDeletesFinishedSnapshot() {
	ctx := context.Background()
	snap := &model.SessionSnapshot{
		Sync: model.SyncState{PuzzleID: 1, Status: model.StatusFinished},
		Mode: model.ModeSolo,
	}
	s.Require().NoError(s.app.Storage.SaveSnapshot(ctx, "room-done", snap))

	session, runner, err := s.app.NewSoloGame(factory.SoloGameParams{
		PlayerName: "Ada",
		Language:   model.LanguageEnglish,
	})
	s.Require().NoError(err)
	defer session.Close()
	defer runner.Stop()

	s.Require().NoError(s.app.RestoreSession(ctx, "room-done", session))

	_, err = s.app.Storage.GetSnapshot(ctx, "room-done")
	s.True(errors.Is(err, model.ErrSnapshotNotFound))
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
