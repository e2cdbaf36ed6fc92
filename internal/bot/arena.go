package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexsettlers/internal/model"
	"github.com/freeeve/hexsettlers/internal/repository"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

// DefaultMaxSteps caps an arena game that nobody manages to win.
const DefaultMaxSteps = 5000

// ArenaConfig configures a single bot-vs-bot game.
type ArenaConfig struct {
	GameName   string
	Strategies [catan.NumPlayers]string // seat -> strategy name
	Rules      catan.Config
	MaxSteps   int   // 0 = DefaultMaxSteps
	Seed       int64 // 0 = random
	DryRun     bool  // skip all writes
}

// ArenaResult describes the outcome of a completed arena game.
type ArenaResult struct {
	GameID     string
	Seed       int64
	Strategies [catan.NumPlayers]string
	Winner     int // catan.NoPlayer when the step limit ran out
	Points     [catan.NumPlayers]int
	Turns      int
	Steps      int
	Fallbacks  int
	Duration   time.Duration
}

// ArenaStores are where an arena game is recorded. Any of them may be nil.
type ArenaStores struct {
	Games   repository.GameRepository
	Moves   repository.MoveRepository
	Results repository.ResultRepository
}

// RunGame plays a full game between bot strategies, one action at a time,
// recording each accepted action as a move. Pass empty stores or set DryRun
// to keep everything in memory.
func RunGame(ctx context.Context, cfg ArenaConfig, stores ArenaStores) (*ArenaResult, error) {
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.Rules.Radius == 0 {
		cfg.Rules = catan.DefaultConfig()
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.DryRun {
		stores = ArenaStores{}
	}

	var seats [catan.NumPlayers]catan.Seat
	for i, name := range cfg.Strategies {
		policy, err := NewStrategy(name, cfg.Seed+int64(i)+1)
		if err != nil {
			return nil, fmt.Errorf("seat %d: %w", i, err)
		}
		seats[i] = catan.Seat{Name: fmt.Sprintf("%s %d", policy.Name(), i+1), Controller: catan.NewBot(policy)}
	}
	g, err := catan.NewGame(cfg.Rules, seats, catan.NewRand(cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	// Seat order may have been shuffled; credit strategies by final seat.
	cfg.Strategies = seatStrategies(g)

	result := &ArenaResult{
		GameID:     uuid.NewString(),
		Seed:       cfg.Seed,
		Strategies: cfg.Strategies,
		Winner:     catan.NoPlayer,
	}
	if stores.Games != nil {
		if err := stores.Games.Create(ctx, arenaGame(result.GameID, cfg, g)); err != nil {
			return nil, fmt.Errorf("create arena game: %w", err)
		}
	}

	start := time.Now()
	seq := 0
	for result.Steps < cfg.MaxSteps {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if _, won := g.Winner(); won {
			break
		}
		phase := g.Phase()
		batch := g.RunBots(1)
		if len(batch) == 0 {
			return nil, fmt.Errorf("game stalled in %s at turn %d", phase, g.TurnNumber())
		}
		for _, step := range batch {
			result.Steps++
			if step.Fallback {
				result.Fallbacks++
			}
			if step.Err != nil {
				continue
			}
			seq++
			if stores.Moves == nil {
				continue
			}
			mv := &model.Move{
				GameID: result.GameID,
				Seq:    seq,
				Player: step.Player,
				Action: step.Action,
				Phase:  phase,
				Bot:    true,
			}
			if step.Action.Kind == catan.ActRoll {
				mv.Roll = g.LastRoll()
			}
			if err := stores.Moves.Append(ctx, mv); err != nil {
				return nil, fmt.Errorf("append move %d: %w", seq, err)
			}
		}
	}
	result.Duration = time.Since(start)
	result.Turns = g.TurnNumber()
	for i := range catan.NumPlayers {
		result.Points[i] = g.TotalPoints(i)
	}
	if w, won := g.Winner(); won {
		result.Winner = w
	}

	if err := record(ctx, stores, result, g); err != nil {
		return nil, err
	}
	if result.Winner == catan.NoPlayer {
		log.Info().Str("gameId", result.GameID).Int("steps", result.Steps).Msg("Arena game hit the step limit")
	} else {
		log.Info().Str("gameId", result.GameID).Int("winner", result.Winner).
			Str("strategy", result.Strategies[result.Winner]).Int("turns", result.Turns).Msg("Arena game won")
	}
	return result, nil
}

func seatStrategies(g *catan.Game) [catan.NumPlayers]string {
	var out [catan.NumPlayers]string
	for i := range out {
		if b, ok := g.Controller(i).(*catan.Bot); ok {
			out[i] = b.Policy.Name()
		}
	}
	return out
}

func record(ctx context.Context, stores ArenaStores, result *ArenaResult, g *catan.Game) error {
	if stores.Games != nil {
		state, err := json.Marshal(g.Snapshot())
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}
		if err := stores.Games.SaveState(ctx, result.GameID, state, result.Steps); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		if result.Winner != catan.NoPlayer {
			if err := stores.Games.SetFinished(ctx, result.GameID, result.Winner); err != nil {
				return fmt.Errorf("set finished: %w", err)
			}
		}
	}
	if stores.Results != nil {
		if err := stores.Results.SaveResult(ctx, result.Record()); err != nil {
			return fmt.Errorf("save result: %w", err)
		}
	}
	return nil
}

func arenaGame(id string, cfg ArenaConfig, g *catan.Game) *model.Game {
	name := cfg.GameName
	if name == "" {
		name = "arena-" + id[:8]
	}
	mg := &model.Game{
		ID:     id,
		Name:   name,
		Status: model.StatusActive,
		Seed:   cfg.Seed,
		Config: cfg.Rules,
	}
	for i := range catan.NumPlayers {
		p, _ := g.Player(i)
		mg.Seats = append(mg.Seats, model.Seat{
			Index:    i,
			Name:     p.Name,
			Color:    p.Color,
			Kind:     p.Kind,
			Strategy: cfg.Strategies[i],
		})
	}
	return mg
}
