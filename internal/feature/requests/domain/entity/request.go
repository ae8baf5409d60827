// Package entity defines the requests feature's domain model.
package entity

import "time"

// RequestStatus is the review state of a support request.
type RequestStatus string

const (
	StatusNew      RequestStatus = "new"
	StatusReviewed RequestStatus = "reviewed"
	StatusClosed   RequestStatus = "closed"
)

// Request is a support request submitted through the public form,
// optionally with an uploaded attachment.
type Request struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Text      string        `gorm:"type:text;not null" json:"text"`
	FileURL   string        `gorm:"size:512" json:"fileUrl,omitempty"`
	Filename  string        `gorm:"size:255" json:"filename,omitempty"`
	Name      string        `gorm:"size:255" json:"name,omitempty"`
	Email     string        `gorm:"size:255" json:"email,omitempty"`
	Phone     string        `gorm:"size:64" json:"phone,omitempty"`
	Status    RequestStatus `gorm:"size:16;default:'new';index" json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// TableName はGORMが使用するテーブル名を指定します。
func (Request) TableName() string {
	return "requests"
}
