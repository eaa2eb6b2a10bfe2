package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"

	"task-tracker/internal/domain"
)

// FormatTimeForDB formats a time.Time value as an RFC 3339 UTC string for consistent storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimeFromDB parses a stored RFC 3339 timestamp
func ParseTimeFromDB(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseTimePtrFromDB parses a nullable timestamp column, returning nil for NULL
func ParseTimePtrFromDB(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := ParseTimeFromDB(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EncodeTags stores a tag list as a JSON array
func EncodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeTags reads a JSON array tag column
func DecodeTags(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	return domain.NormalizeTags(tags), nil
}
