package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexsettlers/internal/auth"
	"github.com/freeeve/hexsettlers/internal/config"
	"github.com/freeeve/hexsettlers/internal/handler"
	"github.com/freeeve/hexsettlers/internal/logger"
	"github.com/freeeve/hexsettlers/internal/middleware"
	"github.com/freeeve/hexsettlers/internal/migrate"
	"github.com/freeeve/hexsettlers/internal/repository/postgres"
	redisrepo "github.com/freeeve/hexsettlers/internal/repository/redis"
	"github.com/freeeve/hexsettlers/internal/service"
)

func main() {
	logger.Init()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Info().Str("port", cfg.Port).Int("radius", cfg.BoardRadius).
		Int("victoryPoints", cfg.VictoryPoints).Str("botStrategy", cfg.BotStrategy).Msg("Config loaded")

	// Database
	db, err := postgres.Connect(context.Background(), cfg.DatabaseURL, cfg.Pool())
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()
	if cfg.MigrationsDir != "" {
		n, err := migrate.Up(context.Background(), db, cfg.MigrationsDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
		log.Info().Int("applied", n).Str("dir", cfg.MigrationsDir).Msg("Migrations up to date")
	}

	// Redis
	redisClient, err := redisrepo.NewClient(context.Background(), cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis connection failed")
	}
	defer redisClient.Close()

	// Repos
	gameRepo := postgres.NewGameRepo(db)
	moveRepo := postgres.NewMoveRepo(db)
	resultRepo := postgres.NewResultRepo(db)

	seats := auth.NewSeatManager(cfg.JWTSecret, cfg.SeatTokenTTL)
	wsHub := handler.NewHub()

	// Services
	sessions := service.NewSessionService(gameRepo, moveRepo, redisClient, seats, wsHub, service.Options{
		Rules:           cfg.Game(),
		BotStrategy:     cfg.BotStrategy,
		MaxBotSteps:     cfg.MaxBotSteps,
		AllowClientSeed: cfg.AllowClientSeed,
	})
	sessions.SetResultRepo(resultRepo)

	// Handlers
	gameHandler := handler.NewGameHandler(sessions, seats, resultRepo)
	wsHandler := handler.NewWSHandler(wsHub, seats, cfg.AllowedOrigins)

	// Router
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	api := http.NewServeMux()
	gameHandler.Routes(api)
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", api))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Recover, middleware.Logger, middleware.CORS(cfg.AllowedOrigins), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Reload active games and let bots finish interrupted turns.
	if err := sessions.RecoverActiveGames(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to recover active games (non-fatal)")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
