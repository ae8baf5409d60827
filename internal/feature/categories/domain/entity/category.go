// Package entity defines the domain entities for the categories feature.
package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SubList is the subcategory names stored as a JSON text column.
type SubList []string

// Value implements driver.Valuer.
func (l SubList) Value() (driver.Value, error) {
	if l == nil {
		l = SubList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *SubList) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}

// Category is a named plugin category with its subcategories.
type Category struct {
	ID   uint    `gorm:"primaryKey"`
	Name string  `gorm:"uniqueIndex;size:255;not null"`
	Subs SubList `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
