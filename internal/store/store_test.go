package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/swatches/internal/id"
	"github.com/listenupapp/swatches/internal/logger"
	"github.com/listenupapp/swatches/internal/palette"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(logger.Discard(), time.Hour, WithStateOptions(palette.WithIDGenerator(id.Sequential("c"))))
	require.NoError(t, err)
	t.Cleanup(func() {
		if !s.db.IsClosed() {
			_ = s.Close()
		}
	})
	return s
}

func TestNew_RejectsNonPositiveTTL(t *testing.T) {
	_, err := New(logger.Discard(), 0)
	assert.Error(t, err)
}

func TestLoad_UnknownSessionIsFresh(t *testing.T) {
	s := setupTestStore(t)

	state, err := s.Load(context.Background(), "sess-1")
	require.NoError(t, err)

	assert.Equal(t, palette.ThemeLight, state.Theme)
	assert.True(t, state.ShowValues)
	assert.Equal(t, 0, state.Colors.Len())
}

func TestUpdate_PersistsState(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	updated, err := s.Update(ctx, "sess-1", func(st *palette.State) error {
		_, err := st.Colors.Append("#ffffff", "#000000")
		st.Theme = palette.ThemeDark
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Colors.Len())

	loaded, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, palette.ThemeDark, loaded.Theme)
	assert.Equal(t, []palette.Entry{
		{ID: "c-1", Value: "#ffffff"},
		{ID: "c-2", Value: "#000000"},
	}, loaded.Colors.Entries())
}

func TestUpdate_SessionsAreIsolated(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "a", func(st *palette.State) error {
		_, err := st.Colors.Append("#aaaaaa")
		return err
	})
	require.NoError(t, err)

	other, err := s.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 0, other.Colors.Len())
}

func TestUpdate_FnErrorAborts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := s.Update(ctx, "sess-1", func(st *palette.State) error {
		_, _ = st.Colors.Append("#ffffff")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Colors.Len())
}

func TestUpdate_SetsTTL(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Update(context.Background(), "sess-1", func(*palette.State) error { return nil })
	require.NoError(t, err)

	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey("sess-1"))
		if err != nil {
			return err
		}
		expires := time.Unix(int64(item.ExpiresAt()), 0)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdate_Concurrent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range 10 {
		wg.Go(func() {
			_, err := s.Update(ctx, "sess-1", func(st *palette.State) error {
				_, err := st.Colors.Append("#123456")
				return err
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, badger.ErrConflict)
		})
	}
	wg.Wait()

	loaded, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, succeeded, loaded.Colors.Len(), "no lost updates")
	assert.Positive(t, succeeded)
}

func TestDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "sess-1", func(st *palette.State) error {
		_, err := st.Colors.Append("#ffffff")
		return err
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "sess-1"))
	require.NoError(t, s.Delete(ctx, "never-existed"))

	loaded, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Colors.Len())
}

func TestSessionCount(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, sid := range []string{"a", "b", "c"} {
		_, err := s.Update(ctx, sid, func(*palette.State) error { return nil })
		require.NoError(t, err)
	}
	require.NoError(t, s.Delete(ctx, "b"))

	count, err := s.SessionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEmptySessionID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Load(ctx, "")
	assert.ErrorIs(t, err, ErrEmptySessionID)

	_, err = s.Update(ctx, "", func(*palette.State) error { return nil })
	assert.ErrorIs(t, err, ErrEmptySessionID)

	assert.ErrorIs(t, s.Delete(ctx, ""), ErrEmptySessionID)
}

func TestCanceledContext(t *testing.T) {
	s := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
}

func TestPingAndClose(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Ping(ctx), ErrClosed)
	_, err := s.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.SessionCount(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}
