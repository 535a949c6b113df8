package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
	"github.com/princekumarofficial/multipost-api/internal/storage"
)

func init() {
	storage.Register("postgres", open)
	storage.Register("postgresql", open)
}

type Postgres struct {
	Db   *sql.DB
	name string
}

// NewPostgres prepares a connection pool for dsn. sql.Open does not dial, so
// an unreachable server is only reported by queries.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	return NewWithDB(db, databaseName(dsn)), nil
}

func NewWithDB(db *sql.DB, name string) *Postgres {
	return &Postgres{Db: db, name: name}
}

func open(ctx context.Context, dsn string) (storage.Handle, error) {
	h, err := NewPostgres(dsn)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (p *Postgres) Name() string {
	return p.name
}

func (p *Postgres) ListCollections(ctx context.Context, limit int) ([]string, error) {
	query := `
	SELECT table_name FROM information_schema.tables
	WHERE table_schema = 'public'
	ORDER BY table_name
	LIMIT $1
	`

	rows, err := p.Db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]string, 0, limit)
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	return tables, rows.Err()
}

func (p *Postgres) Close() error {
	return p.Db.Close()
}

func databaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		return name
	}
	return u.Query().Get("dbname")
}
