package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"foodgram-backend/config"
	"foodgram-backend/logger"
	"foodgram-backend/repositories"
)

const shortcodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var ErrShortcodeExhausted = errors.New("could not find a free shortcode")

type ShortCodeGenerator interface {
	Generate(ctx context.Context) (string, error)
}

type shortCodeGenerator struct {
	repo        repositories.ShortURLRepository
	length      int
	maxAttempts int
	maxWiden    int
	random      func(n int) (string, error)
}

func NewShortCodeGenerator(repo repositories.ShortURLRepository, cfg config.ShortcodeConfig) ShortCodeGenerator {
	return &shortCodeGenerator{
		repo:        repo,
		length:      cfg.Length,
		maxAttempts: cfg.MaxAttempts,
		maxWiden:    cfg.MaxWiden,
		random:      randomString,
	}
}

// Generate draws codes until one is unused. After maxAttempts collisions at a
// length the code grows by one character, at most maxWiden times.
func (g *shortCodeGenerator) Generate(ctx context.Context) (string, error) {
	for length := g.length; length <= g.length+g.maxWiden; length++ {
		for attempt := 0; attempt < g.maxAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return "", err
			}

			code, err := g.random(length)
			if err != nil {
				return "", fmt.Errorf("failed to generate shortcode: %w", err)
			}

			exists, err := g.repo.ShortcodeExists(ctx, code)
			if err != nil {
				return "", fmt.Errorf("failed to check shortcode: %w", err)
			}
			if !exists {
				return code, nil
			}
		}
		logger.Warn("shortcode space crowded, widening", "length", length)
	}
	return "", ErrShortcodeExhausted
}

func randomString(n int) (string, error) {
	max := big.NewInt(int64(len(shortcodeAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = shortcodeAlphabet[idx.Int64()]
	}
	return string(b), nil
}
