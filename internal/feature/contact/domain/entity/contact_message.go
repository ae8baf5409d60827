// Package entity defines the contact feature's domain model.
package entity

import "time"

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName はGORMが使用するテーブル名を指定します。
func (ContactMessage) TableName() string {
	return "contact_messages"
}
