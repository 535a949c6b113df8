package s3

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/princekumarofficial/multipost-api/internal/storage"
)

func init() {
	storage.Register("s3", open)
	storage.Register("minio", open)
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// Storage lists buckets of an S3-compatible server. It has no database name.
type Storage struct {
	cfg    Config
	client *minio.Client
}

func New(cfg Config) (*Storage, error) {
	cl, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return &Storage{cfg: cfg, client: cl}, nil
}

// ParseURL reads s3://access:secret@host:port?secure=true&region=eu-west-1.
func ParseURL(dsn string) (Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Config{}, err
	}
	if u.Host == "" {
		return Config{}, fmt.Errorf("s3 url has no host")
	}

	cfg := Config{
		Endpoint:  u.Host,
		AccessKey: u.User.Username(),
		Region:    u.Query().Get("region"),
	}
	cfg.SecretKey, _ = u.User.Password()

	if v := u.Query().Get("secure"); v != "" {
		cfg.UseSSL, err = strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid secure flag: %w", err)
		}
	}

	return cfg, nil
}

func open(ctx context.Context, dsn string) (storage.Handle, error) {
	cfg, err := ParseURL(dsn)
	if err != nil {
		return nil, err
	}
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) ListCollections(ctx context.Context, limit int) ([]string, error) {
	buckets, err := s.client.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, limit)
	for _, b := range buckets {
		if len(names) == limit {
			break
		}
		names = append(names, b.Name)
	}
	return names, nil
}

func (s *Storage) Close() error {
	return nil
}
