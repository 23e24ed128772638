package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidImage = errors.New("invalid base64 image")

// ImageStore persists uploaded images and resolves their public URLs.
type ImageStore interface {
	Save(ctx context.Context, dir, name string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Image is a decoded data URI.
type Image struct {
	ContentType string
	Ext         string
	Data        []byte
}

// DecodeDataURI parses values of the form "data:image/png;base64,<payload>".
func DecodeDataURI(value string) (*Image, error) {
	header, payload, found := strings.Cut(value, ";base64,")
	if !found || !strings.HasPrefix(header, "data:image/") {
		return nil, ErrInvalidImage
	}

	contentType := strings.TrimPrefix(header, "data:")
	ext := strings.TrimPrefix(contentType, "image/")
	if ext == "" || strings.ContainsAny(ext, "/\\. ") {
		return nil, ErrInvalidImage
	}
	if ext == "jpeg" {
		ext = "jpg"
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil || len(data) == 0 {
		return nil, ErrInvalidImage
	}

	return &Image{ContentType: contentType, Ext: ext, Data: data}, nil
}

// SaveDataURI decodes value and stores it under dir with a random name.
func SaveDataURI(ctx context.Context, store ImageStore, dir, value string) (string, error) {
	img, err := DecodeDataURI(value)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s.%s", uuid.New().String(), img.Ext)
	key, err := store.Save(ctx, dir, name, img.Data, img.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return key, nil
}
