package embedding

import "fmt"

// EmbeddingUnavailableError is returned when the oracle cannot produce a usable vector.
type EmbeddingUnavailableError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *EmbeddingUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding unavailable (%s): %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding unavailable (%s): %s", e.Provider, e.Message)
}

func (e *EmbeddingUnavailableError) Unwrap() error {
	return e.Cause
}
