package leaderboard

import (
	"context"
	"errors"
)

// ErrStoreClosed is returned when operating on a closed store.
var ErrStoreClosed = errors.New("leaderboard store is closed")

// Store abstracts leaderboard persistence.
// Implementations must be safe for concurrent use.
//
// Load never fails on missing or corrupt data: both read as an empty board.
// Errors are reserved for transport problems (unreachable backend, closed
// store); callers may still treat those as an empty board.
type Store interface {
	// Load retrieves the persisted board, or an empty board if none exists
	// or the stored data cannot be decoded.
	Load(ctx context.Context) (Board, error)

	// Save persists the full board, replacing any previous state.
	Save(ctx context.Context, board Board) error

	// Close releases any resources held by the store.
	Close() error
}
