package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/freeeve/hexsettlers/internal/model"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

type mockGameRepo struct {
	mu       sync.Mutex
	games    map[string]*model.Game
	finished map[string]int
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{
		games:    make(map[string]*model.Game),
		finished: make(map[string]int),
	}
}

func (m *mockGameRepo) Create(_ context.Context, g *model.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	cp := *g
	m.games[g.ID] = &cp
	return nil
}

func (m *mockGameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (m *mockGameRepo) List(_ context.Context, status string, limit int) ([]model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Game
	for _, g := range m.games {
		if status == "" || g.Status == status {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockGameRepo) ListActive(ctx context.Context) ([]model.Game, error) {
	return m.List(ctx, model.StatusActive, 0)
}

func (m *mockGameRepo) SaveState(_ context.Context, id string, state json.RawMessage, moveCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.games[id]; ok {
		g.State = state
		g.MoveCount = moveCount
	}
	return nil
}

func (m *mockGameRepo) SetFinished(_ context.Context, id string, winner int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished[id] = winner
	if g, ok := m.games[id]; ok {
		g.Status = model.StatusFinished
		g.Winner = &winner
	}
	return nil
}

type mockMoveRepo struct {
	mu    sync.Mutex
	moves []model.Move
	// failAfter > 0 makes every append fail once that many moves are stored.
	failAfter int
}

var errMoveLogDown = errors.New("move log unavailable")

func (m *mockMoveRepo) failFrom(n int) {
	m.mu.Lock()
	m.failAfter = n
	m.mu.Unlock()
}

func (m *mockMoveRepo) Append(_ context.Context, mv *model.Move) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter > 0 && len(m.moves) >= m.failAfter {
		return errMoveLogDown
	}
	mv.ID = int64(len(m.moves) + 1)
	mv.CreatedAt = time.Now()
	m.moves = append(m.moves, *mv)
	return nil
}

func (m *mockMoveRepo) ListByGame(_ context.Context, gameID string) ([]model.Move, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Move
	for _, mv := range m.moves {
		if mv.GameID == gameID {
			out = append(out, mv)
		}
	}
	return out, nil
}

type mockResultRepo struct {
	mu      sync.Mutex
	results []model.Result
}

func (m *mockResultRepo) SaveResult(_ context.Context, r *model.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, *r)
	return nil
}

func (m *mockResultRepo) ListResults(context.Context, int) ([]model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Result(nil), m.results...), nil
}

func (m *mockResultRepo) StrategyStats(context.Context) ([]model.StrategyStats, error) {
	return nil, nil
}

type mockCache struct {
	mu        sync.Mutex
	snapshots map[string]json.RawMessage
	seqs      map[string]int64
	locks     map[string]string
}

func newMockCache() *mockCache {
	return &mockCache{
		snapshots: make(map[string]json.RawMessage),
		seqs:      make(map[string]int64),
		locks:     make(map[string]string),
	}
}

func (m *mockCache) SetSnapshot(_ context.Context, gameID string, snap json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[gameID] = snap
	return nil
}

func (m *mockCache) GetSnapshot(_ context.Context, gameID string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshots[gameID], nil
}

func (m *mockCache) NextMoveSeq(_ context.Context, gameID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqs[gameID]++
	return m.seqs[gameID], nil
}

func (m *mockCache) SetMoveSeq(_ context.Context, gameID string, seq int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqs[gameID] = seq
	return nil
}

func (m *mockCache) AcquireLock(_ context.Context, gameID, owner string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[gameID]; held {
		return false, nil
	}
	m.locks[gameID] = owner
	return true, nil
}

func (m *mockCache) ReleaseLock(_ context.Context, gameID, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[gameID] == owner {
		delete(m.locks, gameID)
	}
	return nil
}

func (m *mockCache) DeleteGameData(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, gameID)
	delete(m.seqs, gameID)
	delete(m.locks, gameID)
	return nil
}

type event struct {
	gameID string
	kind   string
	data   any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []event
}

func (b *recordingBroadcaster) BroadcastGameEvent(gameID, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event{gameID, eventType, data})
}

// BroadcastGameView records the spectator view and every seat's view.
func (b *recordingBroadcaster) BroadcastGameView(gameID, eventType string, view func(int) any) {
	views := make(map[int]any, catan.NumPlayers+1)
	for seat := Spectator; seat < catan.NumPlayers; seat++ {
		views[seat] = view(seat)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event{gameID, eventType, views})
}

func (b *recordingBroadcaster) last(kind string) (event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.events) - 1; i >= 0; i-- {
		if b.events[i].kind == kind {
			return b.events[i], true
		}
	}
	return event{}, false
}

func (b *recordingBroadcaster) count(kind string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}
