package leaderboard

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store using Google Cloud Firestore.
// The board is kept as a single document so each save replaces it atomically.
type FirestoreStore struct {
	client *firestore.Client
	doc    *firestore.DocumentRef
	mu     sync.RWMutex
	closed bool
}

// FirestoreConfig holds Firestore connection configuration.
type FirestoreConfig struct {
	// ProjectID is the GCP project (required).
	ProjectID string
	// Collection is the collection holding the board document
	// (default: "drillgo").
	Collection string
	// CredentialsFile is an optional service account key path.
	// When empty, Application Default Credentials are used.
	CredentialsFile string
}

// boardDoc is the Firestore document shape for a board.
type boardDoc struct {
	Entries []Entry `firestore:"entries"`
}

const boardDocID = "leaderboard"

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(ctx context.Context, cfg FirestoreConfig) (*FirestoreStore, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project ID is required")
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "drillgo"
	}

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	return &FirestoreStore{
		client: client,
		doc:    client.Collection(collection).Doc(boardDocID),
	}, nil
}

// Load retrieves the persisted board. A missing or undecodable document
// reads as an empty board.
func (s *FirestoreStore) Load(ctx context.Context) (Board, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrStoreClosed
	}
	s.mu.RUnlock()

	snap, err := s.doc.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Board{}, nil
		}
		return nil, fmt.Errorf("get leaderboard document: %w", err)
	}

	var doc boardDoc
	if err := snap.DataTo(&doc); err != nil {
		return Board{}, nil
	}

	return Board(doc.Entries), nil
}

// Save persists the full board, replacing any previous state.
func (s *FirestoreStore) Save(ctx context.Context, board Board) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrStoreClosed
	}
	s.mu.RUnlock()

	if _, err := s.doc.Set(ctx, boardDoc{Entries: board}); err != nil {
		return fmt.Errorf("set leaderboard document: %w", err)
	}

	return nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.client.Close()
}
