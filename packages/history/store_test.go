package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	for i, url := range []string{"http://a/", "http://b/", "http://c/"} {
		require.NoError(t, store.Record(ctx, &Entry{
			ID:         url,
			Time:       base.Add(time.Duration(i) * time.Second),
			Method:     "GET",
			URL:        url,
			Command:    "httpc get " + url,
			StatusCode: 200,
			Bytes:      10 * (i + 1),
			Duration:   time.Duration(i+1) * time.Millisecond,
		}))
	}

	entries, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "http://c/", entries[0].URL)
	assert.Equal(t, "http://b/", entries[1].URL)
	assert.Equal(t, 30, entries[0].Bytes)
	assert.Equal(t, 3*time.Millisecond, entries[0].Duration)
	assert.True(t, entries[0].Time.Equal(base.Add(2*time.Second)))
	assert.Equal(t, "httpc get http://c/", entries[0].Command)
}

func TestStore_RecordFailure(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, &Entry{
		ID:       "tx-1",
		Time:     time.Now(),
		Method:   "POST",
		URL:      "http://down.invalid/",
		Command:  "httpc post -d 'x' http://down.invalid/",
		Error:    "connection refused",
		TimedOut: true,
	}))

	entries, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.True(t, entries[0].Failed())
	assert.True(t, entries[0].TimedOut)
	assert.Equal(t, "connection refused", entries[0].Error)
	assert.Equal(t, 0, entries[0].StatusCode)
}

func TestStore_DuplicateID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	entry := &Entry{ID: "same", Time: time.Now(), Method: "GET", URL: "http://a/", Command: "x"}

	require.NoError(t, store.Record(ctx, entry))
	assert.Error(t, store.Record(ctx, entry))
}

func TestStore_RecentDefaultLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < DefaultLimit+5; i++ {
		require.NoError(t, store.Record(ctx, &Entry{
			ID:      time.Duration(i).String(),
			Time:    now.Add(time.Duration(i) * time.Millisecond),
			Method:  "GET",
			URL:     "http://a/",
			Command: "httpc get http://a/",
		}))
	}

	entries, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, DefaultLimit)
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, &Entry{ID: "1", Time: time.Now(), Method: "GET", URL: "http://a/", Command: "c"}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, path, store.Path())
}

func TestStore_ClearAndStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for i := 1; i <= 4; i++ {
		require.NoError(t, store.Record(ctx, &Entry{
			ID:       time.Duration(i).String(),
			Time:     now,
			Method:   "GET",
			URL:      "http://a/",
			Command:  "c",
			Bytes:    100,
			Duration: time.Duration(i) * 100 * time.Millisecond,
		}))
	}

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(400), stats.Bytes)

	require.NoError(t, store.Clear(ctx))
	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
}
