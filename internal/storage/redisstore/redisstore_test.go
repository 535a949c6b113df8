package redisstore

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/princekumarofficial/multipost-api/internal/storage"
)

// setupTestRedis starts an in-memory Redis server and opens a Store on it.
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, storage.Handle) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	h, err := storage.Open(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("Failed to open redis handle: %v", err)
	}
	t.Cleanup(func() { h.Close() })

	return mr, h
}

func TestListCollections(t *testing.T) {
	mr, h := setupTestRedis(t)

	mr.Set("videos", "1")
	mr.Set("captions", "1")

	keys, err := h.ListCollections(context.Background(), 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"captions", "videos"}) {
		t.Fatalf("Unexpected keys %v", keys)
	}
}

func TestListCollections_Limit(t *testing.T) {
	mr, h := setupTestRedis(t)

	for i := 0; i < 25; i++ {
		mr.Set(fmt.Sprintf("key:%02d", i), "v")
	}

	keys, err := h.ListCollections(context.Background(), 10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(keys) != 10 {
		t.Fatalf("Expected 10 keys, got %d", len(keys))
	}
}

func TestListCollections_Unreachable(t *testing.T) {
	mr, h := setupTestRedis(t)
	mr.Close()

	if _, err := h.ListCollections(context.Background(), 10); err == nil {
		t.Fatal("Expected error when redis is down")
	}
}

func TestName(t *testing.T) {
	s, err := New("redis://localhost:6379/3")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer s.Close()

	if s.Name() != "db3" {
		t.Fatalf("Expected db3, got %q", s.Name())
	}
}
