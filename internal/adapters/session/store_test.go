package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jpp0ca/PlaylistImport-API/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	sess := domain.NewSession(NewID())
	sess.CSRFState = "abc"
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.CSRFState)

	// Callers own their copy until they save it back.
	got.CSRFState = "changed"
	again, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc", again.CSRFState)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()
	sess := domain.NewSession("s")
	require.NoError(t, store.Save(ctx, sess))

	require.NoError(t, store.Delete(ctx, "s"))
	require.NoError(t, store.Delete(ctx, "s"))

	got, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(50 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewSession("s")))

	got, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.NotNil(t, got)

	time.Sleep(120 * time.Millisecond)
	got, err = store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_NoExpiry(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewSession("s")))
	time.Sleep(20 * time.Millisecond)

	got, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestMemoryStore_LockSerializesSameSession(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	unlock, err := store.Lock(ctx, "s")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		release, err := store.Lock(ctx, "s")
		if err == nil {
			close(acquired)
			release()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first was held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	unlock() // releasing twice is a no-op

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock not acquired after release")
	}
}

func TestMemoryStore_LockIndependentSessions(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	unlockA, err := store.Lock(ctx, "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlockB, err := store.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestMemoryStore_LockHonoursContext(t *testing.T) {
	store := NewMemoryStore(0)

	unlock, err := store.Lock(context.Background(), "s")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = store.Lock(ctx, "s")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryStore_LocksAreReclaimed(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := store.Lock(ctx, "s")
			if err == nil {
				unlock()
			}
		}()
	}
	wg.Wait()

	store.lockMu.Lock()
	defer store.lockMu.Unlock()
	assert.Empty(t, store.locks)
}

func TestCodec(t *testing.T) {
	codec := NewCodec("secret", time.Hour)
	id := NewID()

	value, err := codec.Encode(id)
	require.NoError(t, err)
	assert.NotContains(t, value, id)

	got, ok := codec.Decode(value)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = NewCodec("other", time.Hour).Decode(value)
	assert.False(t, ok)

	_, ok = codec.Decode(value + "x")
	assert.False(t, ok)

	_, ok = codec.Decode(id)
	assert.False(t, ok)

	_, ok = codec.Decode("")
	assert.False(t, ok)
}

func TestCodec_EmptySecret(t *testing.T) {
	_, err := NewCodec("", time.Hour).Encode(NewID())
	assert.Error(t, err)
}
