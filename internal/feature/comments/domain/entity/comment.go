// Package entity defines the domain entities for the comments feature.
package entity

import "time"

// Comment is a user comment attached to a plugin.
type Comment struct {
	ID       uint   `gorm:"primaryKey"`
	PluginID uint   `gorm:"not null;index:idx_comments_plugin_created,priority:1"`
	UserID   uint   `gorm:"not null"`
	Content  string `gorm:"not null"`

	CreatedAt time.Time `gorm:"index:idx_comments_plugin_created,priority:2"`
}

// CommentWithUser is a comment joined with its author's display fields.
type CommentWithUser struct {
	Comment
	UserName  string
	UserEmail string
}
