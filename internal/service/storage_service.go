package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"quiz_backend/internal/config"
	"quiz_backend/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider turns stored image keys into URLs a client can fetch.
type StorageProvider interface {
	GetURL(key string) string
	Ping(ctx context.Context) error
}

type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) GetURL(key string) string {
	return joinURL(p.Config.PublicBaseURL, "/uploads", key)
}

func (p *LocalStorageProvider) Ping(ctx context.Context) error {
	info, err := os.Stat(p.Config.LocalPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", p.Config.LocalPath)
	}
	return nil
}

type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) GetURL(key string) string {
	base := p.Config.PublicBaseURL
	if base == "" {
		scheme := "http"
		if p.Config.MinioSecure {
			scheme = "https"
		}
		base = scheme + "://" + p.Config.MinioEndpoint
	}
	return joinURL(base, "/"+p.Config.MinioBucket, key)
}

func (p *MinioStorageProvider) Ping(ctx context.Context) error {
	ok, err := p.Client.BucketExists(ctx, p.Config.MinioBucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %q does not exist", p.Config.MinioBucket)
	}
	return nil
}

type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	var provider StorageProvider
	switch cfg.Storage.Type {
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		provider = p
	case util.StorageLocal, "":
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
	return &StorageService{Provider: provider}, nil
}

// URL resolves a stored key. Empty keys and absolute URLs pass through unchanged.
func (s *StorageService) URL(key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return s.Provider.GetURL(strings.TrimPrefix(key, "/"))
}

func (s *StorageService) Ping(ctx context.Context) error {
	return s.Provider.Ping(ctx)
}

func joinURL(base, prefix, key string) string {
	p := path.Join(prefix, key)
	if base == "" {
		return p
	}
	u, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "/") + p
	}
	u.Path = path.Join(u.Path, p)
	return u.String()
}
