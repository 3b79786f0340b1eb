package dto

import (
	"time"

	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// Timestamps arrive as strings on the wire and are parsed into date values at
// the boundary; malformed values are rejected, not coerced.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(field, value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, apperrors.NewValidationError("invalid timestamp",
		map[string]any{field: "must be an ISO 8601 timestamp"})
}

func parseOptionalTimestamp(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	ts, err := parseTimestamp(field, *value)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
