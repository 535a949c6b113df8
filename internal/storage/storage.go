package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned by Open when no driver can serve the database URL.
var ErrNotFound = errors.New("database driver not found")

// Handle is an opened database client. Opening a handle performs no network
// I/O; ListCollections is the first call that reaches the server.
type Handle interface {
	// ListCollections returns at most limit table, key or bucket names.
	ListCollections(ctx context.Context, limit int) ([]string, error)
	Close() error
}

// Namer is implemented by handles that know the name of their database.
type Namer interface {
	Name() string
}

// OpenFunc opens a Handle for a database URL.
type OpenFunc func(ctx context.Context, dsn string) (Handle, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]OpenFunc)
)

// Register makes a driver available for a URL scheme. Drivers call it from
// init; registering the same scheme twice panics.
func Register(scheme string, open OpenFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()

	scheme = strings.ToLower(scheme)
	if open == nil {
		panic("storage: Register open func is nil")
	}
	if _, dup := drivers[scheme]; dup {
		panic("storage: Register called twice for scheme " + scheme)
	}
	drivers[scheme] = open
}

// Schemes lists the registered URL schemes.
func Schemes() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	schemes := make([]string, 0, len(drivers))
	for s := range drivers {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

// Open dispatches dsn to the driver registered for its scheme.
func Open(ctx context.Context, dsn string) (Handle, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: no database url configured", ErrNotFound)
	}

	u, err := url.Parse(dsn)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("invalid database url: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)

	driversMu.RLock()
	open, ok := drivers[scheme]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrNotFound, scheme)
	}

	return open(ctx, dsn)
}
