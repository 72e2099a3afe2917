package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/blog-api/internal/models"
)

// GormPostRepository stores posts in postgres and writes an activity log row in
// the same transaction as every write.
type GormPostRepository struct{ db *gorm.DB }

func NewGormPostRepository(db *gorm.DB) *GormPostRepository { return &GormPostRepository{db: db} }

func parseUUID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return u.String(), nil
}

func logActivity(ctx context.Context, tx *gorm.DB, action, postID string) error {
	entry := models.ActivityLog{Action: action, PostID: postID}
	return tx.WithContext(ctx).Create(&entry).Error
}

func (r *GormPostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *GormPostRepository) Create(ctx context.Context, p *models.Post) error {
	ts := now()
	post := models.Post{ID: uuid.NewString(), Title: p.Title, Content: p.Content, CreatedAt: ts, UpdatedAt: ts}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return logActivity(ctx, tx, models.ActionNewPost, post.ID)
	})
	if err != nil {
		return err
	}
	*p = post
	return nil
}

func (r *GormPostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	var post models.Post
	err = r.db.WithContext(ctx).Where("id = ?", key).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormPostRepository) Update(ctx context.Context, id string, u models.PostUpdate) (*models.Post, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"updated_at": now()}
	for field, value := range u.Fields() {
		updates[field] = value
	}
	var post models.Post
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", key).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("id = ?", key).First(&post).Error; err != nil {
			return err
		}
		return logActivity(ctx, tx, models.ActionUpdatePost, key)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormPostRepository) Delete(ctx context.Context, id string) error {
	key, err := parseUUID(id)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", key).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return logActivity(ctx, tx, models.ActionDeletePost, key)
	})
}
