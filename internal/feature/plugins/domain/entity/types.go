package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a string slice stored as a JSON text column.
// JSON encoding keeps the column portable between PostgreSQL and the
// in-memory SQLite used by tests.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	return scanJSON(l, value)
}

// Screenshot is one screenshot reference.
type Screenshot struct {
	URL string `json:"url"`
}

// ScreenshotList is a screenshot slice stored as a JSON text column.
type ScreenshotList []Screenshot

// Value implements driver.Valuer.
func (l ScreenshotList) Value() (driver.Value, error) {
	if l == nil {
		l = ScreenshotList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *ScreenshotList) Scan(value any) error {
	return scanJSON(l, value)
}

func scanJSON(dest any, value any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}
