package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"timed-quiz-service/internal/app"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)

	_ = store.Put("p1", app.NewController(app.Settings{}, app.NewCountdown(0), nil))
	if !mr.Exists("quiz:player:p1") {
		t.Fatalf("expected redis key to be set")
	}
	if _, ok := store.Get("p1"); !ok {
		t.Fatalf("expected local session")
	}

	store.Delete("p1")
	if mr.Exists("quiz:player:p1") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestSessionStoreRefreshesMarkerOnActivity(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	_ = store.Put("p1", app.NewController(app.Settings{}, app.NewCountdown(0), nil))

	mr.FastForward(50 * time.Second)
	if _, ok := store.Get("p1"); !ok {
		t.Fatalf("expected local session")
	}
	mr.FastForward(50 * time.Second)
	if !mr.Exists("quiz:player:p1") {
		t.Fatalf("expected marker kept alive by activity")
	}

	mr.FastForward(2 * time.Minute)
	if mr.Exists("quiz:player:p1") {
		t.Fatalf("expected marker to expire without activity")
	}
	if _, ok := store.Get("p1"); !ok {
		t.Fatalf("expected local session to outlive its marker")
	}
}
