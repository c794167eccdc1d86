package store

import (
	"encoding/json"
	"errors"
	"time"

	"beatstore/internal/media"
)

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func marshalStrings(values []string) any {
	if len(values) == 0 {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return string(data)
}

func unmarshalStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func marshalCategories(categories []media.Category) any {
	if len(categories) == 0 {
		return nil
	}
	values := make([]string, len(categories))
	for i, c := range categories {
		values[i] = string(c)
	}
	return marshalStrings(values)
}

func unmarshalCategories(raw string) []media.Category {
	values := unmarshalStrings(raw)
	if len(values) == 0 {
		return nil
	}
	categories := make([]media.Category, 0, len(values))
	for _, v := range values {
		if c, ok := media.ParseCategory(v); ok {
			categories = append(categories, c)
		}
	}
	return categories
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
