package bot

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/freeeve/hexsettlers/internal/model"
)

// mockGameRepo is an in-memory GameRepository.
type mockGameRepo struct {
	mu       sync.Mutex
	games    map[string]*model.Game
	finished map[string]int
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{games: make(map[string]*model.Game), finished: make(map[string]int)}
}

func (m *mockGameRepo) Create(_ context.Context, g *model.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.games[g.ID] = &cp
	return nil
}

func (m *mockGameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.games[id], nil
}

func (m *mockGameRepo) List(_ context.Context, status string, _ int) ([]model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Game
	for _, g := range m.games {
		if status == "" || g.Status == status {
			out = append(out, *g)
		}
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

// mockMoveRepo is an in-memory MoveRepository.
type mockMoveRepo struct {
	mu    sync.Mutex
	moves []model.Move
}

func (m *mockMoveRepo) Append(_ context.Context, mv *model.Move) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mv.ID = int64(len(m.moves) + 1)
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

// mockResultRepo is an in-memory ResultRepository.
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

func (m *mockResultRepo) ListResults(_ context.Context, limit int) ([]model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > 0 && limit < len(m.results) {
		return append([]model.Result(nil), m.results[:limit]...), nil
	}
	return append([]model.Result(nil), m.results...), nil
}

func (m *mockResultRepo) StrategyStats(context.Context) ([]model.StrategyStats, error) {
	return nil, nil
}
