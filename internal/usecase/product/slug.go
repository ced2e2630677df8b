package product

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	nanoid "github.com/jaevor/go-nanoid"
)

const (
	DefaultSlugAlphabet    = "abcdefghijkmnpqrstuvwxyz23456789"
	DefaultSlugLength      = 8
	DefaultSlugMaxAttempts = 10
)

// SlugGenerator draws random slugs and rejects the ones already taken.
type SlugGenerator struct {
	MaxAttempts int
	next        func() string
}

func NewSlugGenerator(alphabet string, length, maxAttempts int) (*SlugGenerator, error) {
	if alphabet == "" {
		alphabet = DefaultSlugAlphabet
	}
	if length <= 0 {
		length = DefaultSlugLength
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultSlugMaxAttempts
	}
	next, err := nanoid.CustomASCII(alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("slug generator: %w", err)
	}
	return &SlugGenerator{MaxAttempts: maxAttempts, next: next}, nil
}

func (g *SlugGenerator) Generate(ctx context.Context, exists func(ctx context.Context, slug string) (bool, error)) (string, error) {
	for attempt := 0; attempt < g.MaxAttempts; attempt++ {
		slug := g.next()
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", domain.ErrSlugExhausted, g.MaxAttempts)
}
