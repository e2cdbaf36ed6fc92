package catan

import (
	"errors"
	"fmt"
)

// Rejections returned by mutating actions. A rejected action never changes
// game state.
var (
	ErrWrongPhase            = errors.New("action not allowed in this phase")
	ErrNotYourTurn           = errors.New("not this player's turn")
	ErrUnknownID             = errors.New("unknown board id")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrCapReached            = errors.New("no pieces of that type left")
	ErrOccupied              = errors.New("location already occupied")
	ErrDistanceRule          = errors.New("too close to another building")
	ErrNotConnected          = errors.New("not connected to own road or building")
	ErrNotLand               = errors.New("location does not touch land")
	ErrNotOwnTown            = errors.New("city must replace own town")
	ErrSameRobberHex         = errors.New("robber must move to a different hex")
	ErrDiscardPending        = errors.New("players still need to discard")
	ErrNoDiscardPending      = errors.New("player does not owe a discard")
	ErrNotVictim             = errors.New("player cannot be robbed here")
	ErrRobberNotPlaced       = errors.New("robber has not been moved yet")
	ErrDeckEmpty             = errors.New("no development cards left")
	ErrCardUnavailable       = errors.New("card not held or bought this turn")
	ErrCardAlreadyUsed       = errors.New("a card was already played this turn")
	ErrInvalidTrade          = errors.New("trade does not cover the required ratio")
	ErrInvalidAction         = errors.New("malformed action")
	ErrGameOver              = errors.New("game is over")
)

// ActionError wraps a rejection with the action that caused it.
type ActionError struct {
	Action ActionKind
	Player int
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s by player %d: %v", e.Action, e.Player, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

func reject(kind ActionKind, player int, err error) error {
	return &ActionError{Action: kind, Player: player, Err: err}
}

// TopologyError reports a board that could not be constructed. It indicates
// a broken configuration, never a runtime condition.
type TopologyError struct {
	Radius  int
	Message string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("board radius %d: %s", e.Radius, e.Message)
}
