package service

import (
	"context"
	"testing"

	"quiz_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageURL(t *testing.T) {
	local, err := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()}})
	require.NoError(t, err)

	assert.Equal(t, "", local.URL(""))
	assert.Equal(t, "/uploads/logos/math.png", local.URL("logos/math.png"))
	assert.Equal(t, "/uploads/logos/math.png", local.URL("/logos/math.png"))
	assert.Equal(t, "https://cdn.example.com/a.png", local.URL("https://cdn.example.com/a.png"))
	assert.NoError(t, local.Ping(context.Background()))

	cdn, err := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: "local", PublicBaseURL: "https://static.example.com/"}})
	require.NoError(t, err)
	assert.Equal(t, "https://static.example.com/uploads/q/1.png", cdn.URL("q/1.png"))
}

func TestMinioURL(t *testing.T) {
	s, err := NewStorageService(&config.Config{Storage: config.StorageConfig{
		Type:          "minio",
		MinioEndpoint: "localhost:9000",
		MinioBucket:   "quiz",
	}})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/quiz/q/1.png", s.URL("q/1.png"))
}

func TestUnknownStorageType(t *testing.T) {
	_, err := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: "ftp"}})
	assert.Error(t, err)
}
