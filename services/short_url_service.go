package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram-backend/logger"
	"foodgram-backend/models"
	"foodgram-backend/repositories"

	"gorm.io/gorm"
)

// Insert attempts when a freshly generated code loses a race to another writer.
const maxShortenInserts = 5

// ShortURLCache fronts shortcode resolution. Implementations key case-insensitively.
type ShortURLCache interface {
	Lookup(ctx context.Context, shortcode string) (string, bool, error)
	Store(ctx context.Context, shortcode, url string) error
}

type ShortURLService interface {
	Shorten(ctx context.Context, fullURL, host string, secure bool) (string, error)
	Resolve(ctx context.Context, shortcode string) (string, error)
}

type shortURLService struct {
	repo      repositories.ShortURLRepository
	generator ShortCodeGenerator
	cache     ShortURLCache
}

// NewShortURLService accepts a nil cache.
func NewShortURLService(repo repositories.ShortURLRepository, generator ShortCodeGenerator, cache ShortURLCache) ShortURLService {
	return &shortURLService{repo: repo, generator: generator, cache: cache}
}

// Shorten returns the short link for fullURL, creating the mapping on first use.
func (s *shortURLService) Shorten(ctx context.Context, fullURL, host string, secure bool) (string, error) {
	normalized := normalizeURL(fullURL, secure)

	existing, err := s.repo.GetByURL(ctx, normalized)
	if err == nil {
		return shortLink(host, secure, existing.Shortcode), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to look up short url: %w", err)
	}

	for attempt := 0; attempt < maxShortenInserts; attempt++ {
		code, err := s.generator.Generate(ctx)
		if err != nil {
			return "", err
		}

		err = s.repo.Create(ctx, &models.ShortURL{URL: normalized, Shortcode: code})
		if err == nil {
			logger.Debug("short url created", "url", normalized, "shortcode", code)
			return shortLink(host, secure, code), nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("failed to save short url: %w", err)
		}

		// Either another request shortened the same url or the code was taken meanwhile.
		existing, getErr := s.repo.GetByURL(ctx, normalized)
		if getErr == nil {
			return shortLink(host, secure, existing.Shortcode), nil
		}
		if !errors.Is(getErr, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to look up short url: %w", getErr)
		}
	}
	return "", ErrShortcodeExhausted
}

func (s *shortURLService) Resolve(ctx context.Context, shortcode string) (string, error) {
	shortcode = strings.TrimSpace(shortcode)
	if shortcode == "" {
		return "", models.ErrorNotFound{Message: "short link not found"}
	}

	if s.cache != nil {
		url, ok, err := s.cache.Lookup(ctx, shortcode)
		if err != nil {
			logger.Warn("short link cache lookup failed", "shortcode", shortcode, "error", err)
		} else if ok {
			return url, nil
		}
	}

	row, err := s.repo.GetByShortcode(ctx, shortcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.ErrorNotFound{Message: "short link not found"}
		}
		return "", fmt.Errorf("failed to resolve short link: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, shortcode, row.URL); err != nil {
			logger.Warn("short link cache store failed", "shortcode", shortcode, "error", err)
		}
	}
	return row.URL, nil
}

func normalizeURL(raw string, secure bool) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "://") {
		return raw
	}
	return scheme(secure) + "://" + strings.TrimLeft(raw, "/")
}

func shortLink(host string, secure bool, code string) string {
	return fmt.Sprintf("%s://%s/s/%s", scheme(secure), host, code)
}

func scheme(secure bool) string {
	if secure {
		return "https"
	}
	return "http"
}
