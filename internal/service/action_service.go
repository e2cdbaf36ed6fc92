package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexsettlers/internal/logger"
	"github.com/freeeve/hexsettlers/internal/model"
	"github.com/freeeve/hexsettlers/pkg/catan"
)

// Act applies an action for a client seat, then lets bots play until a
// client seat is due again. Engine rejections come back as
// *catan.ActionError and leave the game untouched.
func (s *SessionService) Act(ctx context.Context, gameID string, seat int, a catan.Action) (*GameView, error) {
	sess, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	err = s.mutate(ctx, sess, func() ([]model.Move, error) {
		g := sess.game
		if sess.meta.Status == model.StatusFinished || g.IsDone() {
			return nil, ErrGameFinished
		}
		if seat < 0 || seat >= catan.NumPlayers || g.Controller(seat).Kind() == catan.KindBot {
			return nil, ErrNotSeated
		}
		// Bots left waiting by an earlier failed request catch up first.
		moves, err := s.runBots(ctx, sess)
		if err != nil {
			return moves, err
		}
		g = sess.game

		before := g.Snapshot()
		phase := g.Phase()
		if err := g.Apply(seat, a); err != nil {
			return moves, err
		}
		mv, err := s.record(ctx, sess, seat, a, phase, false)
		if err != nil {
			s.revert(ctx, sess, before)
			return moves, err
		}
		moves = append(moves, mv)
		botMoves, err := s.runBots(ctx, sess)
		return append(moves, botMoves...), err
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, gameID, seat)
}

// mutate runs fn with the game held exclusively, in this process and,
// when a cache is configured, across server instances. Moves fn reports
// are persisted and announced even when fn also returns an error.
func (s *SessionService) mutate(ctx context.Context, sess *session, fn func() ([]model.Move, error)) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	gameID := sess.meta.ID
	if s.cache != nil {
		ok, err := s.cache.AcquireLock(ctx, gameID, s.owner, s.opts.LockTTL)
		if err != nil {
			return fmt.Errorf("acquire game lock: %w", err)
		}
		if !ok {
			return ErrGameBusy
		}
		defer func() {
			if err := s.cache.ReleaseLock(context.WithoutCancel(ctx), gameID, s.owner); err != nil {
				log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to release game lock")
			}
		}()
	}

	moves, err := fn()
	if len(moves) > 0 {
		if perr := s.persist(ctx, sess, moves); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}

// runBots lets bot seats act one step at a time, recording each accepted
// action. It stops when a client seat is due, the game is won, or the
// per-request step budget is spent.
func (s *SessionService) runBots(ctx context.Context, sess *session) ([]model.Move, error) {
	g := sess.game
	l := logger.ForGame(sess.meta.ID)
	var moves []model.Move
	for steps := 0; steps < s.opts.MaxBotSteps; {
		if _, won := g.Winner(); won {
			break
		}
		phase := g.Phase()
		before := g.Snapshot()
		batch := g.RunBots(1)
		if len(batch) == 0 {
			break
		}
		for _, step := range batch {
			steps++
			if step.Err != nil {
				l.Warn().Err(step.Err).Int("player", step.Player).Str("action", step.Action.Describe()).
					Bool("fallback", step.Fallback).Msg("Bot action rejected")
				continue
			}
			mv, err := s.record(ctx, sess, step.Player, step.Action, phase, true)
			if err != nil {
				s.revert(ctx, sess, before)
				return moves, err
			}
			moves = append(moves, mv)
		}
	}
	return moves, nil
}

// record appends an accepted action to the move log.
func (s *SessionService) record(ctx context.Context, sess *session, player int, a catan.Action, phase catan.Phase, isBot bool) (model.Move, error) {
	mv := model.Move{
		GameID: sess.meta.ID,
		Seq:    s.nextSeq(ctx, sess),
		Player: player,
		Action: a,
		Phase:  phase,
		Bot:    isBot,
	}
	if a.Kind == catan.ActRoll {
		mv.Roll = sess.game.LastRoll()
	}
	if err := s.moves.Append(ctx, &mv); err != nil {
		return mv, fmt.Errorf("append move %d: %w", mv.Seq, err)
	}
	return mv, nil
}

// revert puts the session back to the state before an action the move log
// refused, and hands back the move number it took, so memory never runs
// ahead of what is stored.
func (s *SessionService) revert(ctx context.Context, sess *session, before *catan.Snapshot) {
	id := sess.meta.ID
	var ctrls [catan.NumPlayers]catan.Controller
	for i := range ctrls {
		ctrls[i] = sess.game.Controller(i)
	}
	g, err := catan.Restore(before, ctrls, catan.ResumeRand(sess.meta.Seed, before.RandSteps))
	if err != nil {
		log.Error().Err(err).Str("gameId", id).Msg("Failed to revert unrecorded action")
		return
	}
	sess.game = g
	sess.seq--
	if s.cache != nil {
		if err := s.cache.SetMoveSeq(ctx, id, int64(sess.seq)); err != nil {
			log.Warn().Err(err).Str("gameId", id).Msg("Failed to rewind move sequence")
		}
	}
	log.Warn().Str("gameId", id).Str("phase", string(g.Phase())).Msg("Reverted action the move log refused")
}

// nextSeq numbers moves. The cache counter is authoritative when present
// so instances sharing a game never reuse a number.
func (s *SessionService) nextSeq(ctx context.Context, sess *session) int {
	sess.seq++
	if s.cache == nil {
		return sess.seq
	}
	n, err := s.cache.NextMoveSeq(ctx, sess.meta.ID)
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.meta.ID).Msg("Move sequence unavailable, using local count")
		return sess.seq
	}
	sess.seq = int(n)
	return sess.seq
}

// persist stores the new state, finishes a won game and announces the moves.
func (s *SessionService) persist(ctx context.Context, sess *session, moves []model.Move) error {
	g, meta := sess.game, sess.meta
	state, err := json.Marshal(g.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	meta.State = state
	meta.MoveCount = sess.seq
	if err := s.games.SaveState(ctx, meta.ID, state, sess.seq); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, meta.ID, state); err != nil {
			log.Warn().Err(err).Str("gameId", meta.ID).Msg("Failed to cache snapshot")
		}
	}

	for _, mv := range moves {
		if mv.Roll != 0 {
			s.broadcaster.BroadcastGameEvent(meta.ID, "dice_rolled", map[string]any{
				"player": mv.Player,
				"roll":   mv.Roll,
				"seq":    mv.Seq,
			})
		}
	}
	s.broadcaster.BroadcastGameView(meta.ID, "game_updated", func(seat int) any {
		return viewOf(sess, seat)
	})

	winner, won := g.Winner()
	if !won || meta.Status == model.StatusFinished {
		return nil
	}
	return s.finish(ctx, sess, winner)
}

func (s *SessionService) finish(ctx context.Context, sess *session, winner int) error {
	g, meta := sess.game, sess.meta
	if err := s.games.SetFinished(ctx, meta.ID, winner); err != nil {
		return fmt.Errorf("set finished: %w", err)
	}
	now := time.Now().UTC()
	meta.Status = model.StatusFinished
	meta.Winner = &winner
	meta.FinishedAt = &now

	var points [catan.NumPlayers]int
	for i := range points {
		points[i] = g.TotalPoints(i)
	}
	if s.results != nil {
		res := &model.Result{
			ID:         meta.ID,
			GameID:     meta.ID,
			Seed:       meta.Seed,
			Points:     points,
			Winner:     winner,
			Turns:      g.TurnNumber(),
			Steps:      meta.MoveCount,
			FinishedAt: now,
		}
		if !meta.CreatedAt.IsZero() {
			res.Duration = now.Sub(meta.CreatedAt)
		}
		for _, seat := range meta.Seats {
			if seat.Index >= 0 && seat.Index < catan.NumPlayers {
				res.Strategies[seat.Index] = seat.Strategy
				if seat.Kind != catan.KindBot {
					res.Strategies[seat.Index] = string(seat.Kind)
				}
			}
		}
		if err := s.results.SaveResult(ctx, res); err != nil {
			log.Error().Err(err).Str("gameId", meta.ID).Msg("Failed to save game result")
		}
	}
	if s.cache != nil {
		if err := s.cache.DeleteGameData(ctx, meta.ID); err != nil {
			log.Warn().Err(err).Str("gameId", meta.ID).Msg("Failed to clear cached game data")
		}
	}

	log.Info().Str("gameId", meta.ID).Int("winner", winner).Int("turns", g.TurnNumber()).Msg("Game won")
	s.broadcaster.BroadcastGameEvent(meta.ID, "game_over", map[string]any{
		"winner": winner,
		"points": points,
	})
	return nil
}
