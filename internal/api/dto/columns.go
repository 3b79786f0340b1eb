package dto

import (
	"github.com/spec-kit/checkpad/internal/repository"
	apperrors "github.com/spec-kit/checkpad/pkg/util"
)

// optionalField erases the Field type parameter for the shared column mapper.
type optionalField interface {
	present() bool
	isNull() bool
	value() any
}

func (f Field[T]) present() bool { return f.Set }
func (f Field[T]) isNull() bool  { return f.Null }
func (f Field[T]) value() any    { return f.Value }

// columnAdder collects present fields into column updates. Explicit nulls on
// non-nullable columns accumulate as field-level validation errors, reported
// together by the returned error func.
func columnAdder(cols *[]repository.ColumnUpdate) (func(column, jsonField string, f optionalField, nullable bool), func() error) {
	details := map[string]any{}

	add := func(column, jsonField string, f optionalField, nullable bool) {
		if !f.present() {
			return
		}
		if f.isNull() {
			if !nullable {
				details[jsonField] = "must not be null"
				return
			}
			*cols = append(*cols, repository.ColumnUpdate{Column: column, Value: nil})
			return
		}
		*cols = append(*cols, repository.ColumnUpdate{Column: column, Value: f.value()})
	}

	errFunc := func() error {
		if len(details) > 0 {
			return apperrors.NewValidationError("invalid fields", details)
		}
		return nil
	}
	return add, errFunc
}

// addTimestampColumn maps one present timestamp string field onto a column
// update, parsing the value and honoring nulls for nullable columns.
func addTimestampColumn(cols *[]repository.ColumnUpdate, column, jsonField string, f Field[string], nullable bool) error {
	if !f.Set {
		return nil
	}
	if f.Null {
		if !nullable {
			return apperrors.NewValidationError("invalid fields", map[string]any{jsonField: "must not be null"})
		}
		*cols = append(*cols, repository.ColumnUpdate{Column: column, Value: nil})
		return nil
	}
	ts, err := parseTimestamp(jsonField, f.Value)
	if err != nil {
		return err
	}
	*cols = append(*cols, repository.ColumnUpdate{Column: column, Value: ts})
	return nil
}
