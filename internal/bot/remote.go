package bot

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexsettlers/pkg/catan"
)

// remotePriority ranks action kinds for a player that only sees its legal
// action list. Kinds not listed are never chosen unless nothing else is
// legal.
var remotePriority = []catan.ActionKind{
	catan.ActDiscard,
	catan.ActBuildCity,
	catan.ActBuildTown,
	catan.ActRoll,
	catan.ActMoveRobber,
	catan.ActSteal,
	catan.ActBuyCard,
	catan.ActBuildRoad,
	catan.ActEndTurn,
	catan.ActPass,
}

// pickLegal chooses among legal actions by kind priority, uniformly within
// a kind. Roads are only taken on a coin flip outside setup so turns end.
func pickLegal(legal []catan.Action, phase catan.Phase, d dice) (catan.Action, bool) {
	if len(legal) == 0 {
		return catan.Action{}, false
	}
	byKind := make(map[catan.ActionKind][]catan.Action)
	for _, a := range legal {
		byKind[a.Kind] = append(byKind[a.Kind], a)
	}
	for _, k := range remotePriority {
		opts := byKind[k]
		if len(opts) == 0 {
			continue
		}
		if k == catan.ActBuildRoad && phase == catan.PhaseBuild && d.float64() < 0.5 {
			continue
		}
		return opts[d.intn(len(opts))], true
	}
	return legal[d.intn(len(legal))], true
}

// RemotePlayer plays one seat of a hosted game over the REST API.
type RemotePlayer struct {
	client   *Client
	events   <-chan WSEvent
	rng      dice
	poll     time.Duration
	maxFails int
}

// NewRemotePlayer creates a RemotePlayer for a client that already holds a
// seat token. seed 0 draws from the shared bot source.
func NewRemotePlayer(c *Client, seed int64) *RemotePlayer {
	return &RemotePlayer{client: c, events: c.Events(), rng: newDice(seed), poll: 2 * time.Second, maxFails: 5}
}

// Play acts whenever the seat is due until the game has a winner, and
// returns the winning seat.
func (p *RemotePlayer) Play(ctx context.Context) (int, error) {
	c := p.client
	l := log.With().Str("gameId", c.GameID()).Int("seat", c.Seat()).Logger()

	v, err := c.View()
	if err != nil {
		return catan.NoPlayer, err
	}
	fails := 0
	for {
		if ctx.Err() != nil {
			return catan.NoPlayer, ctx.Err()
		}
		if v.Winner != nil {
			l.Info().Int("winner", *v.Winner).Msg("Game over")
			return *v.Winner, nil
		}
		if v.Actor != v.Seat {
			if err := p.wait(ctx); err != nil {
				return catan.NoPlayer, err
			}
			if v, err = c.View(); err != nil {
				return catan.NoPlayer, err
			}
			continue
		}

		a, ok := pickLegal(v.Legal, v.Phase, p.rng)
		if !ok {
			return catan.NoPlayer, errors.New("seat is due but has no legal action")
		}
		next, err := c.Act(a)
		if err != nil {
			fails++
			l.Warn().Err(err).Str("action", a.Describe()).Int("fails", fails).Msg("Action rejected")
			if fails >= p.maxFails {
				return catan.NoPlayer, err
			}
			if v, err = c.View(); err != nil {
				return catan.NoPlayer, err
			}
			continue
		}
		fails = 0
		l.Debug().Str("action", a.Describe()).Str("phase", string(next.Phase)).Msg("Action accepted")
		v = next
	}
}

// wait blocks until a game event arrives or the poll interval passes.
func (p *RemotePlayer) wait(ctx context.Context) error {
	t := time.NewTimer(p.poll)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case _, ok := <-p.events:
		if !ok {
			// Socket gone; keep polling.
			p.events = nil
		}
	case <-t.C:
	}
	return nil
}
