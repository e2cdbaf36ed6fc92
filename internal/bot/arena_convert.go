package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freeeve/hexsettlers/internal/model"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

// ParseSeatConfig parses a seat assignment like "0=random,*=balanced". Keys
// are seat numbers (0-3) or "*" for every seat not named; seats left out
// play balanced.
func ParseSeatConfig(s string) ([catan.NumPlayers]string, error) {
	var seats [catan.NumPlayers]string
	fallback := NameBalanced
	if strings.TrimSpace(s) == "" {
		return ParseMatchup(fallback), nil
	}
	for _, part := range strings.Split(s, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return seats, fmt.Errorf("seat config %q: want seat=strategy", part)
		}
		if _, err := NewStrategy(val, 0); err != nil {
			return seats, err
		}
		if key == "*" {
			fallback = val
			continue
		}
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= catan.NumPlayers {
			return seats, fmt.Errorf("seat config %q: seat must be 0-%d or *", part, catan.NumPlayers-1)
		}
		seats[i] = val
	}
	for i := range seats {
		if seats[i] == "" {
			seats[i] = fallback
		}
	}
	return seats, nil
}

// ParseMatchup sets every seat to the same strategy.
func ParseMatchup(name string) [catan.NumPlayers]string {
	var seats [catan.NumPlayers]string
	for i := range seats {
		seats[i] = name
	}
	return seats
}

// Record converts the outcome into the stored result row.
func (r *ArenaResult) Record() *model.Result {
	return &model.Result{
		ID:         uuid.NewString(),
		GameID:     r.GameID,
		Seed:       r.Seed,
		Strategies: r.Strategies,
		Points:     r.Points,
		Winner:     r.Winner,
		Turns:      r.Turns,
		Steps:      r.Steps,
		Fallbacks:  r.Fallbacks,
		Duration:   r.Duration,
		FinishedAt: time.Now().UTC(),
	}
}
