// Package store keeps each browser session's palette state in an in-memory
// Badger database. Entries carry a TTL so idle sessions expire on their own,
// and nothing is ever written to disk.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/listenupapp/swatches/internal/logger"
	"github.com/listenupapp/swatches/internal/palette"
)

const (
	sessionPrefix = "session:"

	// maxUpdateAttempts bounds retries of a read-modify-write that lost a
	// transaction conflict.
	maxUpdateAttempts = 3
)

// Sentinel errors.
var (
	ErrEmptySessionID = errors.New("empty session id")
	ErrClosed         = errors.New("store is closed")
)

// Option configures a Store.
type Option func(*Store)

// WithStateOptions applies palette options to every state the store hands out.
func WithStateOptions(opts ...palette.Option) Option {
	return func(s *Store) {
		s.stateOpts = append(s.stateOpts, opts...)
	}
}

// Store wraps an in-memory Badger database.
type Store struct {
	db        *badger.DB
	logger    *logger.Logger
	ttl       time.Duration
	stateOpts []palette.Option
}

// New opens an in-memory database. Every write expires after ttl.
func New(log *logger.Logger, ttl time.Duration, opts ...Option) (*Store, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}

	bopts := badger.DefaultOptions("").WithInMemory(true)
	bopts.Logger = nil // Badger's internal logging is noise for this workload.

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: log.WithComponent("store"),
		ttl:    ttl,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info("Session store opened", "mode", "in-memory", "ttl", ttl)
	return s, nil
}

// Close releases the database. All session state is lost. Closing twice is
// a no-op.
func (s *Store) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	s.logger.Info("Closing session store")
	return s.db.Close()
}

// TTL returns how long an untouched session survives.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func sessionKey(sessionID string) []byte {
	return []byte(sessionPrefix + sessionID)
}

func (s *Store) check(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return ErrClosed
	}
	if sessionID == "" {
		return ErrEmptySessionID
	}
	return nil
}

// read decodes the session's state inside txn, returning a fresh state when
// the session has none.
func (s *Store) read(txn *badger.Txn, sessionID string) (*palette.State, error) {
	state := palette.NewState(s.stateOpts...)

	item, err := txn.Get(sessionKey(sessionID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return state, nil
	}
	if err != nil {
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, state)
	})
	if err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	return state, nil
}

// Load returns the session's state, or a fresh one for unknown sessions.
func (s *Store) Load(ctx context.Context, sessionID string) (*palette.State, error) {
	if err := s.check(ctx, sessionID); err != nil {
		return nil, err
	}

	var state *palette.State
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		state, err = s.read(txn, sessionID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return state, nil
}

// Update runs fn against the session's state and saves the result in the same
// transaction, resetting the session's TTL. An error from fn aborts without
// saving. Transaction conflicts are retried.
func (s *Store) Update(ctx context.Context, sessionID string, fn func(*palette.State) error) (*palette.State, error) {
	if err := s.check(ctx, sessionID); err != nil {
		return nil, err
	}

	var (
		state *palette.State
		err   error
	)
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			var err error
			state, err = s.read(txn, sessionID)
			if err != nil {
				return err
			}
			if err := fn(state); err != nil {
				return err
			}

			data, err := json.Marshal(state)
			if err != nil {
				return fmt.Errorf("encode session state: %w", err)
			}
			return txn.SetEntry(badger.NewEntry(sessionKey(sessionID), data).WithTTL(s.ttl))
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
		s.logger.Debug("Session update conflicted, retrying", "session_id", sessionID, "attempt", attempt)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Delete drops the session's state. Deleting an unknown session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.check(ctx, sessionID); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(sessionID))
	})
}

// Ping reports whether the database is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return ErrClosed
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// SessionCount returns the number of live sessions.
func (s *Store) SessionCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.db.IsClosed() {
		return 0, ErrClosed
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(sessionPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
