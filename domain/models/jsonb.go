package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// StringList is a JSONB-backed list of strings (board columns, task labels).
type StringList []string

// Scan implements sql.Scanner for StringList
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = StringList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// Value implements driver.Valuer for StringList
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s StringList) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// UUIDList is a JSONB-backed list of UUIDs (task assignees).
type UUIDList []uuid.UUID

// Scan implements sql.Scanner for UUIDList
func (u *UUIDList) Scan(value interface{}) error {
	if value == nil {
		*u = UUIDList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, u)
}

// Value implements driver.Valuer for UUIDList
func (u UUIDList) Value() (driver.Value, error) {
	if u == nil {
		return "[]", nil
	}
	return json.Marshal(u)
}

func (u UUIDList) Contains(id uuid.UUID) bool {
	for _, item := range u {
		if item == id {
			return true
		}
	}
	return false
}
