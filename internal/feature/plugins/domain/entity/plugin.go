// Package entity defines the domain entities for the plugins feature.
package entity

import "time"

// Status is the lifecycle state of a plugin listing.
// Soft deletion is a state transition, never a physical removal.
type Status string

const (
	// StatusActive is the default state; only active plugins are visible
	// on normal read paths.
	StatusActive Status = "active"

	// StatusDeleted marks a soft-deleted plugin. Deleted plugins are
	// excluded from listings and lookups until restored, and are
	// immutable while deleted.
	StatusDeleted Status = "deleted"
)

// Plugin represents a published plugin listing.
type Plugin struct {
	// ID is the unique identifier for the plugin.
	ID uint `gorm:"primaryKey"`

	// Title is the display name of the plugin.
	Title string `gorm:"size:255;not null"`

	// Description is the long-form plain description.
	Description string `gorm:"not null"`

	// DescriptionHTML is the optional rich (HTML) description.
	DescriptionHTML string

	// Category and Subcategory classify the plugin for filtering.
	Category    string `gorm:"size:255;not null;index"`
	Subcategory string `gorm:"size:255;not null;default:''"`

	// Tags is an ordered set of free-form labels.
	Tags StringList `gorm:"type:text"`

	// Screenshots holds the ordered screenshot URLs.
	Screenshots ScreenshotList `gorm:"type:text"`

	// Video is an optional promo video URL.
	Video string

	// AppLink is an optional external link to the plugin itself.
	AppLink string

	// Reaction counters.
	Likes  int `gorm:"not null;default:0"`
	Hearts int `gorm:"not null;default:0"`
	Oks    int `gorm:"not null;default:0"`

	// Rating is the average user rating in [0,5].
	Rating       float64 `gorm:"not null;default:0"`
	RatingsCount int     `gorm:"not null;default:0"`

	// Status is the lifecycle state; DeletedAt records when the plugin
	// entered StatusDeleted and is nil while active.
	Status    Status `gorm:"size:16;not null;default:'active';index"`
	DeletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the GORM table name.
func (Plugin) TableName() string {
	return "plugins"
}

// IsDeleted reports whether the plugin is soft-deleted.
func (p *Plugin) IsDeleted() bool {
	return p.Status == StatusDeleted
}
