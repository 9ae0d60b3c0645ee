package progress

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

func setupStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client, ttl, logging.Default()), mr
}

func TestStoreSaveLoad(t *testing.T) {
	store, _ := setupStore(t, 0)
	ctx := context.Background()

	snap := &Snapshot{
		ID:          "sess-1",
		CurrentStep: 3,
		Answers:     map[string]any{"address": "123 Main St", "timeline": "asap"},
	}
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.CurrentStep)
	assert.Equal(t, "123 Main St", loaded.Address())
	assert.False(t, loaded.SavedAt.IsZero())
}

func TestStoreLoad_Missing(t *testing.T) {
	store, _ := setupStore(t, 0)
	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreLoad_ExpiredByAge(t *testing.T) {
	store, _ := setupStore(t, time.Hour)
	ctx := context.Background()

	snap := &Snapshot{ID: "sess-1", Answers: map[string]any{"address": "123 Main St"}}
	require.NoError(t, store.Save(ctx, snap))

	// Backdate the stored snapshot beyond the TTL.
	snap.SavedAt = time.Now().Add(-2 * time.Hour)
	data, _ := json.Marshal(snap)
	require.NoError(t, store.redis.Set(ctx, store.key("sess-1"), data, time.Hour).Err())

	_, err := store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// The stale key is cleared, not left behind.
	_, err = store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHasRealProgress(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{
			name: "no address",
			snap: Snapshot{CurrentStep: 4, Answers: map[string]any{"timeline": "asap"}},
			want: false,
		},
		{
			name: "address only",
			snap: Snapshot{CurrentStep: 1, Answers: map[string]any{"address": "123 Main St"}},
			want: false,
		},
		{
			name: "address past first steps",
			snap: Snapshot{CurrentStep: 2, Answers: map[string]any{"address": "123 Main St"}},
			want: true,
		},
		{
			name: "address with rich field",
			snap: Snapshot{CurrentStep: 1, Answers: map[string]any{"address": "123 Main St", "timeline": "asap"}},
			want: true,
		},
		{
			name: "address with empty rich field",
			snap: Snapshot{CurrentStep: 1, Answers: map[string]any{"address": "123 Main St", "timeline": "  "}},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.HasRealProgress())
		})
	}
}

func TestLoadForResume_AddressOnlyAutoCleared(t *testing.T) {
	store, mr := setupStore(t, 0)
	ctx := context.Background()

	snap := &Snapshot{ID: "sess-1", CurrentStep: 1, Answers: map[string]any{"address": "123 Main St"}}
	require.NoError(t, store.Save(ctx, snap))

	_, err := store.LoadForResume(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNoRealProgress)

	// Auto-clear removed the noise snapshot entirely.
	assert.False(t, mr.Exists(store.key("sess-1")))
}

func TestLoadForResume_RealProgress(t *testing.T) {
	store, _ := setupStore(t, 0)
	ctx := context.Background()

	snap := &Snapshot{
		ID:          "sess-1",
		CurrentStep: 4,
		Answers:     map[string]any{"address": "123 Main St", "timeline": "asap"},
	}
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.LoadForResume(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.CurrentStep)
}
