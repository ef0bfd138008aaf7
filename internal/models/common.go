package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AuditFields is embedded by every persisted row.
type AuditFields struct {
	CreatedAt     time.Time  `db:"created_at" gorm:"not null"`
	CreatedBy     string     `db:"created_by" gorm:"not null"`
	LastUpdatedAt time.Time  `db:"last_updated_at" gorm:"not null"`
	LastUpdatedBy string     `db:"last_updated_by" gorm:"not null"`
	DeletedAt     *time.Time `db:"deleted_at"`
	DeletedBy     *string    `db:"deleted_by"`
}

// JSONMap is a jsonb column holding a free-form object.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src any) error {
	b, err := jsonBytes(src)
	if err != nil || b == nil {
		*m = nil
		return err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("scan JSONMap: %w", err)
	}
	*m = out
	return nil
}

// StringList is a jsonb column holding an array of strings.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	b, err := jsonBytes(src)
	if err != nil || b == nil {
		*l = nil
		return err
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("scan StringList: %w", err)
	}
	*l = out
	return nil
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case map[string]any, []any:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported json source type %T", src)
	}
}
