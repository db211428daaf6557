package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/pkg/storage"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		size        int64
		contentType string
		code        string
	}{
		{"png", "card.png", 1024, "image/png", ""},
		{"upper case jpeg", "PHOTO.JPEG", 2048, "image/jpeg", ""},
		{"webp", "banner.webp", 10, "image/webp", ""},
		{"too large", "card.png", storage.MaxImageSize + 1, "", "FILE_TOO_LARGE"},
		{"empty", "card.png", 0, "", "EMPTY_FILE"},
		{"pdf", "flyer.pdf", 1024, "", "INVALID_FILE_FORMAT"},
		{"no extension", "flyer", 1024, "", "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, err := storage.ValidateImage(tt.filename, tt.size)
			if tt.code == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.contentType, contentType)
				return
			}
			var uploadErr *storage.UploadError
			require.True(t, errors.As(err, &uploadErr))
			assert.Equal(t, tt.code, uploadErr.Code)
		})
	}
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := storage.NewS3Store(context.Background(), storage.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestS3Store_PresignedURL(t *testing.T) {
	store, err := storage.NewS3Store(context.Background(), storage.S3Config{
		Region:          "us-east-1",
		Bucket:          "printshop-images",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		PresignTTL:      15 * time.Minute,
	})
	require.NoError(t, err)

	url, err := store.PresignedURL(context.Background(), "products/business-cards/front.png")
	require.NoError(t, err)
	assert.Contains(t, url, "printshop-images")
	assert.Contains(t, url, "products/business-cards/front.png")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=900")

	empty, err := store.PresignedURL(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
