package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/example/blog-api/internal/models"
)

// MemoryPostRepository is a process-local store for development and tests.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]models.Post
	order []string
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: make(map[string]models.Post)}
}

func (r *MemoryPostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	posts := make([]models.Post, 0, len(r.order))
	for _, id := range r.order {
		posts = append(posts, r.posts[id])
	}
	return posts, nil
}

func (r *MemoryPostRepository) Create(ctx context.Context, p *models.Post) error {
	ts := now()
	post := models.Post{ID: uuid.NewString(), Title: p.Title, Content: p.Content, CreatedAt: ts, UpdatedAt: ts}
	r.mu.Lock()
	r.posts[post.ID] = post
	r.order = append(r.order, post.ID)
	r.mu.Unlock()
	*p = post
	return nil
}

func (r *MemoryPostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryPostRepository) Update(ctx context.Context, id string, u models.PostUpdate) (*models.Post, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[key]
	if !ok {
		return nil, ErrNotFound
	}
	u.Apply(&p)
	p.UpdatedAt = now()
	r.posts[key] = p
	return &p, nil
}

func (r *MemoryPostRepository) Delete(ctx context.Context, id string) error {
	key, err := parseUUID(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[key]; !ok {
		return ErrNotFound
	}
	delete(r.posts, key)
	for i, v := range r.order {
		if v == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
