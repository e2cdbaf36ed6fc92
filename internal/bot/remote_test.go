package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/freeeve/hexsettlers/pkg/catan"
)

func TestPickLegalPriority(t *testing.T) {
	d := newDice(1)
	tests := []struct {
		name  string
		phase catan.Phase
		legal []catan.Action
		want  catan.ActionKind
	}{
		{"discard first", catan.PhaseBuild, []catan.Action{{Kind: catan.ActEndTurn}, {Kind: catan.ActDiscard}}, catan.ActDiscard},
		{"city over town", catan.PhaseBuild, []catan.Action{{Kind: catan.ActBuildTown, Vertex: 3}, {Kind: catan.ActBuildCity, Vertex: 9}}, catan.ActBuildCity},
		{"roll before cards", catan.PhaseProduction, []catan.Action{{Kind: catan.ActPlayCard}, {Kind: catan.ActRoll}}, catan.ActRoll},
		{"setup road", catan.PhaseSetupFirstRoad, []catan.Action{{Kind: catan.ActBuildRoad, Edge: 4}}, catan.ActBuildRoad},
		{"unranked fallback", catan.PhaseProgress1, []catan.Action{{Kind: catan.ActMonopoly}}, catan.ActMonopoly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := pickLegal(tt.legal, tt.phase, d)
			if !ok || a.Kind != tt.want {
				t.Errorf("expected %s, got %s", tt.want, a.Kind)
			}
		})
	}
	if _, ok := pickLegal(nil, catan.PhaseBuild, d); ok {
		t.Error("expected no pick from an empty list")
	}
}

// stubServer plays a two-step game: seat 0 places a town, then seat 2 wins.
type stubServer struct {
	mu      sync.Mutex
	acted   []catan.Action
	created map[string]any
	auth    []string
}

func (s *stubServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = append(s.auth, r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/games":
		json.NewDecoder(r.Body).Decode(&s.created)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"game":   map[string]any{"id": "g1"},
			"tokens": map[string]string{"0": "tok-0"},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/games/g1/view":
		json.NewEncoder(w).Encode(RemoteView{
			Seat:  0,
			Phase: catan.PhaseSetupSettlement,
			Actor: 0,
			Legal: []catan.Action{{Kind: catan.ActBuildTown, Vertex: 12}},
		})
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/games/g1/actions":
		var a catan.Action
		json.NewDecoder(r.Body).Decode(&a)
		s.acted = append(s.acted, a)
		winner := 2
		json.NewEncoder(w).Encode(RemoteView{Seat: 0, Phase: catan.PhaseDone, Actor: 2, Winner: &winner})
	default:
		http.NotFound(w, r)
	}
}

func TestRemotePlayerPlaysSeat(t *testing.T) {
	stub := &stubServer{}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	c := NewClient("remote", srv.URL)
	if err := c.CreateGame("remote test", [catan.NumPlayers - 1]string{NameRandom, NameBalanced, NameBalanced}, 5); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.GameID() != "g1" || c.Seat() != 0 {
		t.Fatalf("expected g1 seat 0, got %s seat %d", c.GameID(), c.Seat())
	}
	seats, _ := stub.created["seats"].([]any)
	if len(seats) != catan.NumPlayers {
		t.Errorf("expected 4 seats in request, got %d", len(seats))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	winner, err := NewRemotePlayer(c, 3).Play(ctx)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if winner != 2 {
		t.Errorf("expected winner 2, got %d", winner)
	}

	stub.mu.Lock()
	defer stub.mu.Unlock()
	if len(stub.acted) != 1 || stub.acted[0].Kind != catan.ActBuildTown || stub.acted[0].Vertex != 12 {
		t.Errorf("expected one town on vertex 12, got %v", stub.acted)
	}
	if stub.auth[0] != "" {
		t.Error("expected create without a token")
	}
	for _, h := range stub.auth[1:] {
		if h != "Bearer tok-0" {
			t.Errorf("expected seat token, got %q", h)
		}
	}
}

func TestClientReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"roll by player 0: action not allowed in this phase"}`))
	}))
	defer srv.Close()

	c := NewClient("remote", srv.URL)
	c.UseSeat("g1", 0, "tok")
	if _, err := c.Act(catan.Action{Kind: catan.ActRoll}); err == nil {
		t.Fatal("expected error for 422")
	}
}
