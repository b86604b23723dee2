package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/crossfire-game/crossfire-go/internal/factory"
	"github.com/crossfire-game/crossfire-go/internal/model"
	"github.com/crossfire-game/crossfire-go/internal/services/bot"
)

func newSimulateCmd() *cobra.Command {
	var (
		language   string
		categories []string
		puzzleID   int
		duration   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a headless bot-vs-bot game locally",
		Long: `simulate runs a full game with both seats driven by the bot policy,
using the embedded content. Useful for smoke-testing content packs and
watching the turn flow without a UI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))

			app, err := factory.New(factory.Config{Logger: logger})
			if err != nil {
				return err
			}

			lang := model.Language(language)
			cats := make([]model.Category, len(categories))
			for i, c := range categories {
				cats[i] = model.Category(c)
			}

			session, opponent, err := app.NewSoloGame(factory.SoloGameParams{
				PlayerName: bot.Name + " I",
				Language:   lang,
				Categories: cats,
				PuzzleID:   model.PuzzleID(puzzleID),
			})
			if err != nil {
				return err
			}
			defer session.Close()
			defer opponent.Stop()

			// Seat a second bot as player one so the game plays itself
			state := session.State()
			p, err := app.PuzzleService.GetByID(lang, state.PuzzleID)
			if err != nil {
				return err
			}
			protagonist := bot.NewRunner(bot.RunnerConfig{
				Session: session,
				Puzzle:  p,
				Policy:  bot.NewRandomPolicy(app.Random),
				Clock:   app.Clock,
				Logger:  logger,
				Index:   model.PlayerOne,
			})
			defer protagonist.Stop()

			done := make(chan struct{})
			session.OnEvent(func(ev model.Event) {
				switch ev.Type {
				case model.EventWordCompleted:
					fmt.Printf("word %d completed by player %d (+%d)\n", ev.WordID, ev.PlayerIndex, ev.Points)
				case model.EventAnswerResolved:
					fmt.Printf("answer resolved for player %d (+%d)\n", ev.PlayerIndex, ev.Points)
				case model.EventTurnSwitched:
					fmt.Printf("turn passes to player %d\n", ev.PlayerIndex)
				case model.EventGameFinished:
					close(done)
				}
			})

			start := time.Now()
			session.Start()
			fmt.Printf("simulating on puzzle %d (%s), up to %s\n", state.PuzzleID, lang, duration)

			select {
			case <-done:
			case <-time.After(duration):
			case <-cmd.Context().Done():
			}

			final := session.State()
			summary := GameSummary{
				PuzzleID:       int(final.PuzzleID),
				Status:         string(final.Status),
				Scores:         map[string]int{},
				CompletedWords: len(final.CompletedWordIDs),
				TotalWords:     len(p.Words),
				ElapsedSeconds: int(time.Since(start).Seconds()),
			}
			for _, player := range final.Players {
				summary.Scores[player.Name] = player.Score
			}
			if final.Status == model.StatusFinished {
				if winner, ok := app.ScoringService.Winner(final.Players); ok {
					summary.Winner = final.Players[winner].Name
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "en", "Content language: en, es")
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "Trivia categories (default: all)")
	cmd.Flags().IntVar(&puzzleID, "puzzle-id", 0, "Puzzle id (default: random)")
	cmd.Flags().DurationVar(&duration, "duration", 5*time.Minute, "Stop after this long even if unfinished")

	return cmd
}
