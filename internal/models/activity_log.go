package models

import "time"

const (
	ActionNewPost    = "new_post"
	ActionUpdatePost = "update_post"
	ActionDeletePost = "delete_post"
)

// ActivityLog records post writes for stores that keep an audit trail.
type ActivityLog struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Action   string    `gorm:"type:varchar(50);not null" json:"action"`
	PostID   string    `gorm:"type:varchar(36);index;not null" json:"post_id"`
	LoggedAt time.Time `gorm:"autoCreateTime" json:"logged_at"`
}
