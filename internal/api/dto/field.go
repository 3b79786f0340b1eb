package dto

import "encoding/json"

// Field is a presence-aware optional value for partial updates: Set reports
// whether the key appeared in the JSON body at all, Null whether it was an
// explicit null. Absent keys leave the stored column untouched; explicit nulls
// clear nullable columns.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
