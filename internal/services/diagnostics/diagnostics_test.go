package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/princekumarofficial/multipost-api/internal/storage"
)

type fakeHandle struct {
	names []string
	err   error
	limit int
}

func (f *fakeHandle) ListCollections(ctx context.Context, limit int) ([]string, error) {
	f.limit = limit
	return f.names, f.err
}

func (f *fakeHandle) Close() error { return nil }

type namedHandle struct {
	fakeHandle
}

func (namedHandle) Name() string { return "multipost" }

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestProbe_DatabaseNotFound(t *testing.T) {
	_, openErr := storage.Open(context.Background(), "")
	svc := NewService(StaticLoader(nil, openErr), env(nil), time.Second)

	resp := svc.Probe(context.Background())

	if !strings.Contains(resp.Database, "not found") {
		t.Fatalf("Expected 'not found' in database field, got %q", resp.Database)
	}
	if resp.Backend != BackendRunning {
		t.Fatalf("Unexpected backend %q", resp.Backend)
	}
	if resp.ConnectionStatus != StatusNotConnected {
		t.Fatalf("Unexpected connection status %q", resp.ConnectionStatus)
	}
	if resp.Collections == nil || len(resp.Collections) != 0 {
		t.Fatalf("Expected empty non-nil collections, got %#v", resp.Collections)
	}
	if *resp.DatabaseURL != EnvNotSet || *resp.DatabaseName != EnvNotSet {
		t.Fatalf("Expected env flags not set, got %q / %q", *resp.DatabaseURL, *resp.DatabaseName)
	}
}

func TestProbe_OpenError(t *testing.T) {
	long := errors.New(strings.Repeat("é", 80))
	svc := NewService(StaticLoader(nil, long), env(nil), 0)

	resp := svc.Probe(context.Background())

	want := DatabaseErrorPrefix + strings.Repeat("é", 50)
	if resp.Database != want {
		t.Fatalf("Expected %q, got %q", want, resp.Database)
	}
	if resp.ConnectionStatus != StatusNotConnected {
		t.Fatalf("Unexpected connection status %q", resp.ConnectionStatus)
	}
}

func TestProbe_NilHandle(t *testing.T) {
	svc := NewService(StaticLoader(nil, nil), env(nil), 0)

	if got := svc.Probe(context.Background()).Database; got != DatabaseNotInitialized {
		t.Fatalf("Expected %q, got %q", DatabaseNotInitialized, got)
	}
}

func TestProbe_Working(t *testing.T) {
	names := make([]string, 15)
	for i := range names {
		names[i] = fmt.Sprintf("table_%02d", i)
	}
	h := &namedHandle{fakeHandle{names: names}}

	svc := NewService(StaticLoader(h, nil), env(map[string]string{
		EnvDatabaseURL:  "postgres://localhost/multipost",
		EnvDatabaseName: "multipost",
	}), time.Second)

	resp := svc.Probe(context.Background())

	if resp.Database != DatabaseWorking {
		t.Fatalf("Expected %q, got %q", DatabaseWorking, resp.Database)
	}
	if resp.ConnectionStatus != StatusConnected {
		t.Fatalf("Expected Connected, got %q", resp.ConnectionStatus)
	}
	if len(resp.Collections) != MaxCollections {
		t.Fatalf("Expected %d collections, got %d", MaxCollections, len(resp.Collections))
	}
	if h.limit != MaxCollections {
		t.Fatalf("Expected handle to be asked for %d names, got %d", MaxCollections, h.limit)
	}
	if *resp.DatabaseURL != EnvSet || *resp.DatabaseName != EnvSet {
		t.Fatalf("Expected env flags set, got %q / %q", *resp.DatabaseURL, *resp.DatabaseName)
	}
}

func TestProbe_ListError(t *testing.T) {
	h := &fakeHandle{err: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")}
	svc := NewService(StaticLoader(h, nil), env(nil), time.Second)

	resp := svc.Probe(context.Background())

	want := DatabaseListErrPrefix + "dial tcp 127.0.0.1:5432: connect: connection refus"
	if resp.Database != want {
		t.Fatalf("Expected %q, got %q", want, resp.Database)
	}
	if resp.ConnectionStatus != StatusConnected {
		t.Fatalf("Expected Connected, got %q", resp.ConnectionStatus)
	}
	if len(resp.Collections) != 0 {
		t.Fatalf("Expected no collections, got %v", resp.Collections)
	}
}

func TestProbe_Idempotent(t *testing.T) {
	h := &fakeHandle{names: []string{"a", "b"}}
	svc := NewService(StaticLoader(h, nil), env(nil), time.Second)

	first := svc.Probe(context.Background())
	second := svc.Probe(context.Background())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Expected identical probes, got %+v and %+v", first, second)
	}
}

func TestHandleName(t *testing.T) {
	if got := handleName(&namedHandle{}); got != "multipost" {
		t.Fatalf("Expected multipost, got %q", got)
	}
	if got := handleName(&fakeHandle{}); got != NameConnected {
		t.Fatalf("Expected %q, got %q", NameConnected, got)
	}
}
