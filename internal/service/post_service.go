package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/example/blog-api/internal/models"
	"github.com/example/blog-api/internal/repository"
	"github.com/example/blog-api/internal/search"
)

// ErrSearchDisabled is returned by Search when no index is configured.
var ErrSearchDisabled = errors.New("search is not configured")

// PostService validates writes and runs exactly one repository call per
// operation. Index updates afterwards are best effort.
type PostService struct {
	repo  repository.PostRepository
	index search.Indexer
	log   zerolog.Logger
}

// NewPostService builds the service. index may be nil.
func NewPostService(repo repository.PostRepository, index search.Indexer, log zerolog.Logger) *PostService {
	return &PostService{repo: repo, index: index, log: log}
}

type CreatePostInput struct {
	Title   string
	Content string
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.repo.FindAll(ctx)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := models.ValidatePost(in.Title, in.Content); err != nil {
		return nil, err
	}
	post := &models.Post{Title: in.Title, Content: in.Content}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.reindex(ctx, *post)
	return post, nil
}

// GetPost returns nil, nil when no post has the id.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// UpdatePost returns nil, nil when no post has the id. Last writer wins.
func (s *PostService) UpdatePost(ctx context.Context, id string, u models.PostUpdate) (*models.Post, error) {
	if err := models.ValidatePostUpdate(u); err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, id, u)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, *p)
	return p, nil
}

// DeletePost succeeds when the id is well formed, whether or not a post was
// removed.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.DeletePost(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("post_id", id).Msg("search deindex failed")
		}
	}
	return nil
}

func (s *PostService) Search(ctx context.Context, q string) ([]models.Post, error) {
	if s.index == nil {
		return nil, ErrSearchDisabled
	}
	return s.index.SearchPosts(ctx, q)
}

func (s *PostService) reindex(ctx context.Context, p models.Post) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexPost(ctx, p); err != nil {
		s.log.Warn().Err(err).Str("post_id", p.ID).Msg("search index failed")
	}
}
