// Package repository holds the post store backends. Every method performs a
// single atomic store operation.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/example/blog-api/internal/models"
)

var (
	// ErrNotFound is returned when no post has the requested id.
	ErrNotFound = errors.New("post not found")
	// ErrInvalidID is returned when an id is not in the store's id format.
	ErrInvalidID = errors.New("invalid post id")
)

type PostRepository interface {
	// FindAll returns every post in the store's natural order, never nil.
	FindAll(ctx context.Context) ([]models.Post, error)
	// Create assigns ID, CreatedAt and UpdatedAt and persists p.
	Create(ctx context.Context, p *models.Post) error
	FindByID(ctx context.Context, id string) (*models.Post, error)
	// Update overwrites the provided fields, refreshes UpdatedAt at
	// millisecond resolution and returns the post as stored after the update.
	// Concurrent updates of one post never fail against each other; the last
	// writer wins.
	Update(ctx context.Context, id string, u models.PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}

// now is the store clock. Timestamps are kept at millisecond precision so
// every backend round-trips them identically.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
