package diagnostics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/princekumarofficial/multipost-api/internal/storage"
	"github.com/princekumarofficial/multipost-api/internal/types"
)

const (
	BackendRunning = "✅ Running"

	DatabaseNotAvailable   = "❌ Not Available"
	DatabaseNotFound       = "❌ Database module not found (run enable-database first)"
	DatabaseErrorPrefix    = "❌ Error: "
	DatabaseNotInitialized = "⚠️  Available but not initialized"
	DatabaseAvailable      = "✅ Available"
	DatabaseWorking        = "✅ Connected & Working"
	DatabaseListErrPrefix  = "⚠️  Connected but Error: "

	NameConnected = "✅ Connected"

	StatusConnected    = "Connected"
	StatusNotConnected = "Not Connected"

	EnvSet    = "✅ Set"
	EnvNotSet = "❌ Not Set"

	// MaxCollections bounds the names reported by a probe.
	MaxCollections = 10
	// maxErrorLen is in characters, not bytes.
	maxErrorLen = 50

	EnvDatabaseURL  = "DATABASE_URL"
	EnvDatabaseName = "DATABASE_NAME"
)

// Loader acquires the optional database handle. It returns an error wrapping
// storage.ErrNotFound when no database is available at all.
type Loader func(ctx context.Context) (storage.Handle, error)

// StaticLoader returns a Loader reporting the outcome of an earlier Open.
func StaticLoader(h storage.Handle, err error) Loader {
	return func(ctx context.Context) (storage.Handle, error) {
		return h, err
	}
}

type Service struct {
	load    Loader
	getenv  func(string) string
	timeout time.Duration
}

// NewService builds a probe. getenv is consulted only for presence.
func NewService(load Loader, getenv func(string) string, timeout time.Duration) *Service {
	return &Service{
		load:    load,
		getenv:  getenv,
		timeout: timeout,
	}
}

// Probe reports backend and database health. It never fails: every problem
// with the database ends up as text in the response.
func (s *Service) Probe(ctx context.Context) types.DiagnosticsResponse {
	resp := types.DiagnosticsResponse{
		Backend:          BackendRunning,
		Database:         DatabaseNotAvailable,
		ConnectionStatus: StatusNotConnected,
		Collections:      []string{},
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.probeDatabase(ctx, &resp)

	resp.DatabaseURL = presence(s.getenv(EnvDatabaseURL))
	resp.DatabaseName = presence(s.getenv(EnvDatabaseName))

	return resp
}

func (s *Service) probeDatabase(ctx context.Context, resp *types.DiagnosticsResponse) {
	h, err := s.load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		resp.Database = DatabaseNotFound
		return
	case err != nil:
		slog.Warn("database handle unavailable", slog.String("error", err.Error()))
		resp.Database = DatabaseErrorPrefix + truncate(err.Error(), maxErrorLen)
		return
	case h == nil:
		resp.Database = DatabaseNotInitialized
		return
	}

	resp.Database = DatabaseAvailable
	resp.ConnectionStatus = StatusConnected
	slog.Debug("database handle acquired", slog.String("name", handleName(h)))

	collections, err := h.ListCollections(ctx, MaxCollections)
	if err != nil {
		slog.Warn("database listing failed", slog.String("error", err.Error()))
		resp.Database = DatabaseListErrPrefix + truncate(err.Error(), maxErrorLen)
		return
	}

	if len(collections) > MaxCollections {
		collections = collections[:MaxCollections]
	}
	if collections != nil {
		resp.Collections = collections
	}
	resp.Database = DatabaseWorking
}

func handleName(h storage.Handle) string {
	if n, ok := h.(storage.Namer); ok && n.Name() != "" {
		return n.Name()
	}
	return NameConnected
}

func presence(value string) *string {
	status := EnvNotSet
	if value != "" {
		status = EnvSet
	}
	return &status
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
