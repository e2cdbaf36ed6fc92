// Command bot creates a game on a running server and plays seat 0 over the
// REST API against server-side bots.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexsettlers/internal/bot"
	"github.com/freeeve/hexsettlers/internal/logger"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

func main() {
	url := flag.String("url", "http://localhost:8010", "server base URL")
	name := flag.String("name", "remote", "player name")
	opponent := flag.String("opponents", bot.NameBalanced, "strategy for the three server-side seats")
	seed := flag.Int64("seed", 0, "player seed, also sent as the game seed if the server allows it (0 = random)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger.InitConsole(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	client := bot.NewClient(*name, *url)
	var opponents [catan.NumPlayers - 1]string
	for i := range opponents {
		opponents[i] = *opponent
	}
	if err := client.CreateGame(*name+" vs "+*opponent, opponents, *seed); err != nil {
		log.Fatal().Err(err).Msg("Create game failed")
	}
	log.Info().Str("gameId", client.GameID()).Int("seat", client.Seat()).Msg("Game created")

	if err := client.ConnectWS(); err != nil {
		log.Warn().Err(err).Msg("WebSocket unavailable, polling instead")
	} else {
		defer client.CloseWS()
	}

	winner, err := bot.NewRemotePlayer(client, *seed).Play(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Remote player failed")
	}
	log.Info().Int("winner", winner).Bool("won", winner == client.Seat()).Msg("Bot game completed")
}
