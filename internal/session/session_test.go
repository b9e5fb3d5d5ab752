package session

import (
	"testing"
	"time"
)

func TestCreateAndGet(t *testing.T) {
	m := NewManager(time.Minute)

	s, err := m.Create(42, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.ID == "" {
		t.Fatal("session ID is empty")
	}

	got, ok := m.Get(s.ID)
	if !ok {
		t.Fatal("Get() did not find the created session")
	}
	if got.UserID != 42 {
		t.Errorf("UserID = %d, want 42", got.UserID)
	}

	if _, ok := m.Get("missing"); ok {
		t.Error("Get() found a session that was never created")
	}
}

func TestDelete(t *testing.T) {
	m := NewManager(time.Minute)
	s, err := m.Create(1, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	m.Delete(s.ID)
	if _, ok := m.Get(s.ID); ok {
		t.Error("session still present after Delete()")
	}

	// Deleting again is a no-op.
	m.Delete(s.ID)
}

func TestExpire(t *testing.T) {
	m := NewManager(time.Minute)

	stale, err := m.Create(1, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	fresh, err := m.Create(2, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Age the first session past the TTL.
	m.mu.Lock()
	m.sessions[stale.ID].lastUsed = time.Now().Add(-2 * time.Minute)
	m.mu.Unlock()

	expired := m.expire(time.Now())
	if expired != 1 {
		t.Fatalf("expire() = %d, want 1", expired)
	}
	if _, ok := m.Get(stale.ID); ok {
		t.Error("stale session survived expiry")
	}
	if _, ok := m.Get(fresh.ID); !ok {
		t.Error("fresh session was expired")
	}
}
