package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ams/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Driver:            "s3",
		Endpoint:          "localhost:9000",
		Bucket:            "digital-versions",
		AccessKey:         "minio",
		SecretKey:         "minio-secret",
		UsePathStyle:      true,
		PresignExpiration: 10 * time.Minute,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	_, err := NewS3ObjectStorage(nil)
	assert.ErrorContains(t, err, "configuration is required")

	tests := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		wantErr string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "access key is required"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testStorageConfig()
			tt.mutate(cfg)
			_, err := NewS3ObjectStorage(cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewS3ObjectStorage_Defaults(t *testing.T) {
	cfg := testStorageConfig()
	cfg.PresignExpiration = 0

	s, err := NewS3ObjectStorage(cfg, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	assert.Equal(t, "digital-versions", s.Bucket())
	assert.Equal(t, 15*time.Minute, s.presignExpiration)

	s, err = NewS3ObjectStorage(testStorageConfig(), WithPresignExpiration(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, s.presignExpiration)
}

func TestNormalizeEndpoint(t *testing.T) {
	got, err := normalizeEndpoint("minio:9000", false)
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000", got)

	got, err = normalizeEndpoint("s3.archive.org", true)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.archive.org", got)

	got, err = normalizeEndpoint("", true)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestS3ObjectStorage_PresignedURLs(t *testing.T) {
	s, err := NewS3ObjectStorage(testStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()
	key := "digital-versions/finding_aids/HU_OSA_300-1-2_014_003/scan.pdf"

	download, err := s.PresignedDownloadURL(ctx, key, "scan.pdf")
	require.NoError(t, err)
	u, err := url.Parse(download)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/digital-versions/digital-versions/finding_aids/"))
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Query().Get("response-content-disposition"), "scan.pdf")

	upload, err := s.PresignedUploadURL(ctx, key, "application/pdf")
	require.NoError(t, err)
	assert.Contains(t, upload, "X-Amz-Signature=")

	_, err = s.PresignedDownloadURL(ctx, "", "x")
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = s.PresignedUploadURL(ctx, "", "x")
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = s.Exists(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, s.Delete(ctx, ""), ErrEmptyKey)
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, "attachment; filename=scan.pdf", contentDisposition("scan.pdf"))
	assert.Equal(t, `attachment; filename="box 14.tif"`, contentDisposition("box 14.tif"))
}
