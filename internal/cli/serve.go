package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/crossfire-game/crossfire-go/internal/api"
	"github.com/crossfire-game/crossfire-go/internal/factory"
	"github.com/crossfire-game/crossfire-go/internal/services/room"
	redisstorage "github.com/crossfire-game/crossfire-go/internal/storage/redis"
)

const cleanupInterval = 10 * time.Minute

func newServeCmd() *cobra.Command {
	var (
		bind        string
		port        int
		storageType string
		redisURL    string
		baseURL     string
		puzzleDir   string
		questionDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API and websocket relay server",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)

			factoryCfg := factory.Config{
				Logger:      logger,
				StorageType: storageType,
			}
			if storageType == factory.StorageTypeRedis {
				redisCfg := redisstorage.DefaultConfig()
				redisCfg.URL = redisURL
				factoryCfg.RedisConfig = &redisCfg
			}

			app, err := factory.New(factoryCfg)
			if err != nil {
				return err
			}

			if err := loadContentOverrides(app, puzzleDir, questionDir); err != nil {
				return err
			}

			router := api.NewRouter(api.RouterConfig{
				Logger:      logger,
				RoomService: app.RoomService,
				HubManager:  app.HubManager,
				BaseURL:     baseURL,
			})

			serverCfg := api.DefaultServerConfig()
			serverCfg.Host = bind
			serverCfg.Port = port
			server := api.NewServer(router, serverCfg, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)

			g.Go(server.Start)

			g.Go(func() error {
				<-ctx.Done()
				return server.Shutdown(context.Background())
			})

			g.Go(func() error {
				ticker := time.NewTicker(cleanupInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
						if n, err := app.RoomService.CleanupStale(ctx, room.StaleAfter); err != nil {
							logger.Warn("stale room cleanup failed", "error", err)
						} else if n > 0 {
							logger.Info("stale rooms removed", slog.Int("count", n))
						}
						app.HubManager.CleanupEmptyHubs()
					}
				}
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&bind, "bind", "b", "", "Address to bind to (env: CROSSFIRE_BIND)")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on (env: CROSSFIRE_PORT)")
	cmd.Flags().StringVar(&storageType, "storage", factory.StorageTypeMemory, "Storage backend: memory, redis (env: CROSSFIRE_STORAGE)")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "Redis connection URL (env: CROSSFIRE_REDIS_URL)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "External URL encoded into join QR codes (env: CROSSFIRE_BASE_URL)")
	cmd.Flags().StringVar(&puzzleDir, "puzzles", "", "Path to a puzzle JSON file overriding the embedded catalog, as <lang>=<path>")
	cmd.Flags().StringVar(&questionDir, "questions", "", "Path to a question JSON file overriding the embedded bank, as <lang>=<path>")

	return cmd
}

func loadContentOverrides(app *factory.App, puzzleSpec, questionSpec string) error {
	if puzzleSpec != "" {
		lang, path, err := splitContentSpec(puzzleSpec)
		if err != nil {
			return err
		}
		if err := app.PuzzleService.LoadFromFile(lang, path); err != nil {
			return err
		}
	}
	if questionSpec != "" {
		lang, path, err := splitContentSpec(questionSpec)
		if err != nil {
			return err
		}
		if err := app.QuestionService.LoadFromFile(lang, path); err != nil {
			return err
		}
	}
	return nil
}
