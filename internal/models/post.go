package models

import (
	"time"
)

type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Title     string    `gorm:"type:varchar(50);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// PostUpdate carries a partial overwrite. Nil fields are left untouched.
type PostUpdate struct {
	Title   *string
	Content *string
}

// Apply overwrites the provided fields of p.
func (u PostUpdate) Apply(p *Post) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
}

// Fields returns the provided fields keyed by their stored name.
func (u PostUpdate) Fields() map[string]string {
	out := make(map[string]string, 2)
	if u.Title != nil {
		out[FieldTitle] = *u.Title
	}
	if u.Content != nil {
		out[FieldContent] = *u.Content
	}
	return out
}
