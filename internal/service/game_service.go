package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexsettlers/internal/auth"
	"github.com/freeeve/hexsettlers/internal/bot"
	"github.com/freeeve/hexsettlers/internal/model"
	"github.com/freeeve/hexsettlers/internal/repository"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotSeated    = errors.New("seat is not played by a client")
	ErrGameFinished = errors.New("game is finished")
	ErrGameBusy     = errors.New("game is being updated elsewhere")
	ErrInvalidGame  = errors.New("invalid game settings")
)

// Options are the server-wide game settings. Unless AllowClientSeed is set,
// every game draws a private seed and a seed in the request is ignored.
type Options struct {
	Rules           catan.Config
	BotStrategy     string
	MaxBotSteps     int
	LockTTL         time.Duration
	AllowClientSeed bool
}

// session is one live engine. mu serializes every mutation of the game.
type session struct {
	mu   sync.Mutex
	game *catan.Game
	meta *model.Game
	seq  int
}

// SessionService hosts live games: it keeps engines in memory, serializes
// actions per game, lets bots take their turns and persists every accepted
// move. The cache and result repository are optional.
type SessionService struct {
	games       repository.GameRepository
	moves       repository.MoveRepository
	results     repository.ResultRepository
	cache       repository.GameCache
	seats       *auth.SeatManager
	broadcaster Broadcaster
	opts        Options
	owner       string

	live sync.Map // game id -> *session
}

// NewSessionService creates a SessionService.
func NewSessionService(
	games repository.GameRepository,
	moves repository.MoveRepository,
	cache repository.GameCache,
	seats *auth.SeatManager,
	broadcaster Broadcaster,
	opts Options,
) *SessionService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	if opts.Rules.Radius == 0 {
		opts.Rules = catan.DefaultConfig()
	}
	if opts.MaxBotSteps <= 0 {
		opts.MaxBotSteps = 2000
	}
	if opts.LockTTL == 0 {
		opts.LockTTL = 30 * time.Second
	}
	return &SessionService{
		games:       games,
		moves:       moves,
		cache:       cache,
		seats:       seats,
		broadcaster: broadcaster,
		opts:        opts,
		owner:       uuid.NewString(),
	}
}

// SetResultRepo records finished hosted games alongside arena results.
func (s *SessionService) SetResultRepo(repo repository.ResultRepository) {
	s.results = repo
}

// SeatRequest describes one seat of a new game. Seats not listed are
// filled with bots.
type SeatRequest struct {
	Name     string      `json:"name"`
	Color    catan.Color `json:"color,omitempty"`
	Bot      bool        `json:"bot"`
	Strategy string      `json:"strategy,omitempty"`
}

// CreateRequest is the input to Create. Seed is honoured only on servers
// that allow client seeds.
type CreateRequest struct {
	Name  string        `json:"name"`
	Seats []SeatRequest `json:"seats"`
	Seed  int64         `json:"seed,omitempty"`
	Rules *catan.Config `json:"rules,omitempty"`
}

// Created is a new game plus the seat tokens for its client seats.
type Created struct {
	Game   *model.Game    `json:"game"`
	Tokens map[int]string `json:"tokens"`
}

// Create sets up a new game, persists it and lets any bots that open the
// game take their turns.
func (s *SessionService) Create(ctx context.Context, req CreateRequest) (*Created, error) {
	if len(req.Seats) > catan.NumPlayers {
		return nil, fmt.Errorf("%w: %d seats", ErrInvalidGame, len(req.Seats))
	}
	var err error
	rules := s.opts.Rules
	if req.Rules != nil {
		rules = *req.Rules
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGame, err)
	}
	seed := req.Seed
	if seed == 0 || !s.opts.AllowClientSeed {
		if seed, err = privateSeed(); err != nil {
			return nil, err
		}
	}

	var seats [catan.NumPlayers]catan.Seat
	for i := range seats {
		sr := SeatRequest{Bot: true}
		if i < len(req.Seats) {
			sr = req.Seats[i]
		}
		seats[i] = catan.Seat{Name: sr.Name, Color: sr.Color, Controller: catan.Remote{}}
		if sr.Bot {
			ctrl, err := s.botController(sr.Strategy, botSeed(seed, i, 0))
			if err != nil {
				return nil, fmt.Errorf("%w: seat %d: %v", ErrInvalidGame, i, err)
			}
			seats[i].Controller = ctrl
		}
	}
	g, err := catan.NewGame(rules, seats, catan.NewRand(seed))
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	meta := &model.Game{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Status: model.StatusActive,
		Seed:   seed,
		Config: rules,
		Seats:  seatsOf(g),
	}
	if meta.Name == "" {
		meta.Name = "game-" + meta.ID[:8]
	}
	if meta.State, err = json.Marshal(g.Snapshot()); err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.games.Create(ctx, meta); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	var clientSeats []int
	for _, seat := range meta.Seats {
		if seat.Kind != catan.KindBot {
			clientSeats = append(clientSeats, seat.Index)
		}
	}
	tokens, err := s.seats.SeatTokens(meta.ID, clientSeats)
	if err != nil {
		return nil, fmt.Errorf("seat tokens: %w", err)
	}

	sess := &session{game: g, meta: meta}
	s.live.Store(meta.ID, sess)
	log.Info().Str("gameId", meta.ID).Int("clientSeats", len(clientSeats)).Msg("Game created")

	if err := s.mutate(ctx, sess, func() ([]model.Move, error) { return s.runBots(ctx, sess) }); err != nil {
		return nil, err
	}
	sess.mu.Lock()
	out := *sess.meta
	sess.mu.Unlock()
	return &Created{Game: &out, Tokens: tokens}, nil
}

func (s *SessionService) botController(strategy string, seed int64) (catan.Controller, error) {
	if strategy == "" {
		strategy = s.opts.BotStrategy
	}
	policy, err := bot.NewStrategy(strategy, seed)
	if err != nil {
		return nil, err
	}
	return catan.NewBot(policy), nil
}

// privateSeed draws a game seed nobody outside the server can guess.
func privateSeed() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("draw game seed: %w", err)
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed, nil
}

// botSeed derives a bot's private source from the game seed, its seat and
// the move count the session was loaded at, so a bot never reuses a stream
// after a restore.
func botSeed(seed int64, seat, moveCount int) int64 {
	s := seed + int64(seat) + 1 + int64(moveCount)*int64(catan.NumPlayers+1)
	if s == 0 {
		s = 1
	}
	return s
}

// seatsOf reads the seat table back from the engine, which may have
// shuffled the seat order.
func seatsOf(g *catan.Game) []model.Seat {
	out := make([]model.Seat, 0, catan.NumPlayers)
	for i := range catan.NumPlayers {
		p, _ := g.Player(i)
		seat := model.Seat{Index: i, Name: p.Name, Color: p.Color, Kind: p.Kind}
		if b, ok := g.Controller(i).(*catan.Bot); ok {
			seat.Strategy = b.Policy.Name()
		}
		out = append(out, seat)
	}
	return out
}

// Get returns the stored record of a game.
func (s *SessionService) Get(ctx context.Context, gameID string) (*model.Game, error) {
	sess, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	meta := *sess.meta
	return &meta, nil
}

// List returns stored games, optionally filtered by status.
func (s *SessionService) List(ctx context.Context, status string, limit int) ([]model.Game, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.games.List(ctx, status, limit)
}

// Moves returns the accepted actions of a game in order.
func (s *SessionService) Moves(ctx context.Context, gameID string) ([]model.Move, error) {
	meta, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, ErrGameNotFound
	}
	return s.moves.ListByGame(ctx, gameID)
}

// load returns the live session for a game, restoring it from the cached
// snapshot or, failing that, the state stored with the game record.
func (s *SessionService) load(ctx context.Context, gameID string) (*session, error) {
	if v, ok := s.live.Load(gameID); ok {
		return v.(*session), nil
	}
	meta, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("find game: %w", err)
	}
	if meta == nil {
		return nil, ErrGameNotFound
	}

	state := meta.State
	fromCache := false
	if s.cache != nil {
		cached, err := s.cache.GetSnapshot(ctx, gameID)
		if err != nil {
			log.Warn().Err(err).Str("gameId", gameID).Msg("Snapshot cache read failed, using stored state")
		} else if cached != nil {
			state, fromCache = cached, true
		}
	}
	if len(state) == 0 {
		return nil, fmt.Errorf("game %s has no stored state", gameID)
	}
	var snap catan.Snapshot
	if err := json.Unmarshal(state, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	var ctrls [catan.NumPlayers]catan.Controller
	for i := range ctrls {
		ctrls[i] = catan.Remote{}
	}
	for _, seat := range meta.Seats {
		if seat.Kind != catan.KindBot || seat.Index < 0 || seat.Index >= catan.NumPlayers {
			continue
		}
		if ctrls[seat.Index], err = s.botController(seat.Strategy, botSeed(meta.Seed, seat.Index, meta.MoveCount)); err != nil {
			return nil, fmt.Errorf("seat %d: %w", seat.Index, err)
		}
	}
	g, err := catan.Restore(&snap, ctrls, catan.ResumeRand(meta.Seed, snap.RandSteps))
	if err != nil {
		return nil, fmt.Errorf("restore game: %w", err)
	}

	if s.cache != nil && !fromCache && meta.Status == model.StatusActive {
		if err := s.cache.SetSnapshot(ctx, gameID, state); err != nil {
			log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to warm snapshot cache")
		}
		if err := s.cache.SetMoveSeq(ctx, gameID, int64(meta.MoveCount)); err != nil {
			log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to restore move sequence")
		}
	}

	sess := &session{game: g, meta: meta, seq: meta.MoveCount}
	actual, _ := s.live.LoadOrStore(gameID, sess)
	return actual.(*session), nil
}

// RecoverActiveGames reloads every active game after a restart and lets
// bots finish any turn that was interrupted.
func (s *SessionService) RecoverActiveGames(ctx context.Context) error {
	games, err := s.games.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active games: %w", err)
	}
	if len(games) == 0 {
		log.Info().Msg("No active games to recover")
		return nil
	}

	log.Info().Int("count", len(games)).Msg("Recovering active games after restart")
	for _, game := range games {
		sess, err := s.load(ctx, game.ID)
		if err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to recover game")
			continue
		}
		if err := s.mutate(ctx, sess, func() ([]model.Move, error) { return s.runBots(ctx, sess) }); err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to run bots during recovery")
			continue
		}
		log.Info().Str("gameId", game.ID).Str("phase", string(sess.game.Phase())).
			Int("turn", sess.game.TurnNumber()).Msg("Recovered game")
	}
	return nil
}
