package services

import (
	"context"
	"strings"
	"testing"

	"github.com/kendall-kelly/shop-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3ImageService_UploadImage(t *testing.T) {
	s3Mock := NewMockS3Service()
	images := &S3ImageService{s3Service: s3Mock}
	ctx := context.Background()

	key, err := images.UploadImage(ctx, 3, createTestFileHeader(t, "cover.png", []byte("png bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "items/item3_"))
	assert.True(t, s3Mock.FileExists(key))

	url, err := images.GetImageURL(ctx, key)
	require.NoError(t, err)
	assert.Contains(t, url, key)

	require.NoError(t, images.DeleteImage(ctx, key))
	assert.False(t, s3Mock.FileExists(key))
}

func TestS3ImageService_RejectsInvalidFiles(t *testing.T) {
	s3Mock := NewMockS3Service()
	images := &S3ImageService{s3Service: s3Mock}

	_, err := images.UploadImage(context.Background(), 1, createTestFileHeader(t, "cover.gif", []byte("gif")))

	var fileErr *utils.FileUploadError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, "INVALID_FILE_FORMAT", fileErr.Code)
	assert.Zero(t, s3Mock.FileCount(), "nothing should be uploaded")
}

func TestS3ImageService_EmptyKeys(t *testing.T) {
	images := &S3ImageService{s3Service: NewMockS3Service()}
	ctx := context.Background()

	url, err := images.GetImageURL(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, url)
	assert.NoError(t, images.DeleteImage(ctx, ""))

	_, err = images.GetImageURL(ctx, "items/missing.png")
	assert.Error(t, err)
}

func TestLocalImageService(t *testing.T) {
	dir := t.TempDir()
	images := NewLocalImageService(dir)
	ctx := context.Background()

	key, err := images.UploadImage(ctx, 9, createTestFileHeader(t, "cover.png", []byte("png")))
	require.NoError(t, err)

	url, err := images.GetImageURL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, utils.GetImageURL(key), url)

	require.NoError(t, images.DeleteImage(ctx, key))
	assert.NoError(t, images.DeleteImage(ctx, ""))
}

func TestImageServiceInstances(t *testing.T) {
	originalImages := GetImageService()
	originalS3 := GetS3Service()
	defer func() {
		SetImageService(originalImages)
		SetS3Service(originalS3)
	}()

	s3Mock := NewMockS3Service()
	s3Mock.SetAsMockForTesting()
	assert.Same(t, s3Mock, GetS3Service())

	images := InitImageService(GetS3Service())
	assert.IsType(t, &S3ImageService{}, images)

	local := InitLocalImageService(t.TempDir())
	assert.Same(t, local, GetImageService())

	mock := NewMockImageService()
	mock.SetAsMockForTesting()
	assert.Same(t, mock, GetImageService())
}
