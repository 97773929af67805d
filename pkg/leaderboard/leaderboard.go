// Package leaderboard provides ranked score persistence for drillgo sessions.
// A leaderboard is a small, whole-document value: it is loaded once at startup
// and rewritten in full on every change.
package leaderboard

import (
	"sort"
)

// Limit is the maximum number of entries a board retains.
const Limit = 10

// Entry is a single leaderboard row, frozen at game-over time.
type Entry struct {
	// Name is the player identifier at the time of the commit.
	Name string `json:"name" firestore:"name"`
	// Score is the final score of the episode.
	Score int `json:"score" firestore:"score"`
}

// Board is an ordered sequence of entries, descending by score.
// Entries with equal scores keep their relative insertion order.
type Board []Entry

// Merge returns a new board with e inserted, re-ranked and truncated to Limit.
// The receiver is not modified.
func (b Board) Merge(e Entry) Board {
	out := make(Board, 0, len(b)+1)
	out = append(out, b...)
	out = append(out, e)

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > Limit {
		out = out[:Limit]
	}
	return out
}

// Clone returns a defensive copy of the board.
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	out := make(Board, len(b))
	copy(out, b)
	return out
}
