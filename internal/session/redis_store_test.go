package session

import (
	"testing"
	"time"

	"plates-console/internal/models"

	"github.com/redis/go-redis/v9"
)

// TestRedisStore needs a reachable redis; it is skipped otherwise
func TestRedisStore(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	t.Cleanup(func() { client.Close() })
	if err := client.Ping(t.Context()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	key := "plates-console:test:" + t.Name()
	store := NewRedisStore(client, key, time.Minute)
	t.Cleanup(func() { store.Clear() })

	snap, err := store.Load()
	if err != nil || snap.AccessToken != "" {
		t.Fatalf("Load of missing key = %+v, %v", snap, err)
	}

	if err := store.Save(&Snapshot{AccessToken: "a", RefreshToken: "r", User: &models.User{ID: 2}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	snap, err = store.Load()
	if err != nil || snap.AccessToken != "a" || snap.User == nil || snap.User.ID != 2 {
		t.Fatalf("Load = %+v, %v", snap, err)
	}
	if ttl := client.TTL(t.Context(), key).Val(); ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl = %v, want within a minute", ttl)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	snap, err = store.Load()
	if err != nil || snap.AccessToken != "" {
		t.Errorf("Load after Clear = %+v, %v", snap, err)
	}
}
