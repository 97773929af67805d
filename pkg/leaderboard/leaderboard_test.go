package leaderboard

import (
	"testing"
)

func TestBoardMerge_DescendingOrder(t *testing.T) {
	var board Board
	board = board.Merge(Entry{Name: "A", Score: 50})
	board = board.Merge(Entry{Name: "B", Score: 80})
	board = board.Merge(Entry{Name: "C", Score: 80})

	want := []Entry{
		{Name: "B", Score: 80},
		{Name: "C", Score: 80},
		{Name: "A", Score: 50},
	}

	if len(board) != len(want) {
		t.Fatalf("board length = %d, want %d", len(board), len(want))
	}
	for i, e := range want {
		if board[i] != e {
			t.Errorf("board[%d] = %+v, want %+v", i, board[i], e)
		}
	}
}

func TestBoardMerge_StableTies(t *testing.T) {
	var board Board
	for _, name := range []string{"first", "second", "third"} {
		board = board.Merge(Entry{Name: name, Score: 100})
	}

	for i, name := range []string{"first", "second", "third"} {
		if board[i].Name != name {
			t.Errorf("board[%d].Name = %s, want %s (ties must keep insertion order)", i, board[i].Name, name)
		}
	}
}

func TestBoardMerge_Truncation(t *testing.T) {
	var board Board
	for i := 0; i < Limit+5; i++ {
		board = board.Merge(Entry{Name: "player", Score: i * 10})
	}

	if len(board) != Limit {
		t.Fatalf("board length = %d, want %d", len(board), Limit)
	}
	// Highest score survives, lowest entries fall off.
	if board[0].Score != (Limit+4)*10 {
		t.Errorf("board[0].Score = %d, want %d", board[0].Score, (Limit+4)*10)
	}
	if board[Limit-1].Score != 50 {
		t.Errorf("board[%d].Score = %d, want 50", Limit-1, board[Limit-1].Score)
	}
}

func TestBoardMerge_DoesNotMutateReceiver(t *testing.T) {
	original := Board{{Name: "A", Score: 10}}
	_ = original.Merge(Entry{Name: "B", Score: 20})

	if len(original) != 1 || original[0].Name != "A" {
		t.Errorf("Merge mutated receiver: %+v", original)
	}
}

func TestBoardClone(t *testing.T) {
	board := Board{{Name: "A", Score: 10}, {Name: "B", Score: 5}}
	clone := board.Clone()

	clone[0].Name = "Z"
	if board[0].Name != "A" {
		t.Error("Clone() should not share backing storage")
	}

	if Board(nil).Clone() != nil {
		t.Error("Clone() of nil board should be nil")
	}
}
