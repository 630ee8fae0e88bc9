package features

import "fmt"

// MalformedRecordError is returned when a record lacks a field the composer needs.
type MalformedRecordError struct {
	Field   string
	Message string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: %s: %s", e.Field, e.Message)
}
