package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const pixel = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABAgMAAABieywaAAAACVBMVEUAAAD///9fX1/S0ecCAAAACXBIWXMAAA7EAAAOxAGVKw4bAAAACklEQVQImWNoAAAAggCByxOyYQAAAABJRU5ErkJggg=="

func TestDecodeDataURI(t *testing.T) {
	img, err := DecodeDataURI(pixel)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "png", img.Ext)
	assert.NotEmpty(t, img.Data)

	jpeg, err := DecodeDataURI("data:image/jpeg;base64,/9j/4AAQ")
	require.NoError(t, err)
	assert.Equal(t, "jpg", jpeg.Ext)
}

func TestDecodeDataURIRejectsGarbage(t *testing.T) {
	for _, value := range []string{
		"",
		"not an image",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png;base64,***",
		"data:image/../x;base64,aGVsbG8=",
		"data:image/png;base64,",
	} {
		_, err := DecodeDataURI(value)
		assert.ErrorIs(t, err, ErrInvalidImage, value)
	}
}

func TestLocalStore(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "http://localhost:8080/media/")
	require.NoError(t, err)

	key, err := SaveDataURI(context.Background(), store, "recipes/images", pixel)
	require.NoError(t, err)
	assert.Regexp(t, `^recipes/images/[0-9a-f-]{36}\.png$`, key)
	assert.Equal(t, "http://localhost:8080/media/"+key, store.URL(key))

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), key))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is not an error.
	assert.NoError(t, store.Delete(context.Background(), key))
	assert.Equal(t, "", store.URL(""))
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestS3Store(t *testing.T) {
	client := new(mockS3)
	store := NewS3Store(client, "foodgram", "")

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "foodgram" && *in.Key == "users/a.png" && *in.ContentType == "image/png"
	})).Return(nil).Once()
	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "users/a.png"
	})).Return(nil).Once()

	key, err := store.Save(context.Background(), "users", "a.png", []byte{1}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "users/a.png", key)
	assert.Equal(t, "https://foodgram.s3.amazonaws.com/users/a.png", store.URL(key))
	require.NoError(t, store.Delete(context.Background(), key))

	client.AssertExpectations(t)
}
