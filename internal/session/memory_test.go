package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore(time.Hour, time.Hour)
	defer store.Close()
	ctx := context.Background()

	sess, err := store.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess.Stage != StageIdle {
		t.Errorf("fresh session stage = %s, want idle", sess.Stage)
	}

	sess.Stage = StageAwaitDate
	sess.Unit = 17
	if err := store.Put(ctx, 42, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	again, err := store.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Stage != StageAwaitDate || again.Unit != 17 {
		t.Errorf("session not persisted: %+v", again)
	}

	// Another user's lookup must not see this state.
	other, err := store.Get(ctx, 43)
	if err != nil {
		t.Fatalf("get other: %v", err)
	}
	if other.Stage != StageIdle || other.Unit != 0 {
		t.Errorf("cross-user leak: %+v", other)
	}

	if err := store.Reset(ctx, 42); err != nil {
		t.Fatalf("reset: %v", err)
	}
	fresh, err := store.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get after reset: %v", err)
	}
	if fresh.Stage != StageIdle || fresh.Unit != 0 {
		t.Errorf("reset did not clear session: %+v", fresh)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(50*time.Millisecond, time.Hour)
	defer store.Close()
	ctx := context.Background()

	sess, _ := store.Get(ctx, 1)
	sess.Stage = StageAwaitTime
	if err := store.Put(ctx, 1, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	time.Sleep(80 * time.Millisecond)

	// An expired entry behaves like a missing one even before the sweep.
	got, err := store.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stage != StageIdle {
		t.Errorf("expired session stage = %s, want idle", got.Stage)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore(20*time.Millisecond, 10*time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		sess, _ := store.Get(ctx, i)
		sess.Stage = StageAwaitUnit
		_ = store.Put(ctx, i, sess)
	}
	if store.Len() != 5 {
		t.Fatalf("store holds %d sessions, want 5", store.Len())
	}

	deadline := time.Now().Add(time.Second)
	for store.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("janitor did not evict idle sessions, %d remain", store.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
