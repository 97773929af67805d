package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore implements Store using a single JSON document on disk.
// Storage layout:
//
//	~/.drillgo/
//	  └── leaderboard.json
type FileStore struct {
	path   string
	mu     sync.Mutex
	closed bool
}

// NewFileStore creates a new file-based store.
// If path is empty, uses ~/.drillgo/leaderboard.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, ".drillgo", "leaderboard.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	return &FileStore{path: path}, nil
}

// Load retrieves the persisted board. A missing or unparseable file reads as
// an empty board, never as an error.
func (f *FileStore) Load(ctx context.Context) (Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrStoreClosed
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Board{}, nil
		}
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	var board Board
	if err := json.Unmarshal(data, &board); err != nil {
		// Corrupt data is treated as empty, not fatal.
		return Board{}, nil
	}

	return board, nil
}

// Save persists the full board, replacing any previous state.
func (f *FileStore) Save(ctx context.Context, board Board) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrStoreClosed
	}

	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}

	return nil
}

// Close marks the store closed. The file needs no teardown.
func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
