package types

import "fmt"

// ValidationError reports a request field that is missing or unusable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ValidateNew checks the fields a candidate must carry when first submitted,
// on top of Validate.
func (c *CandidateInput) ValidateNew() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.FirstName == nil || *c.FirstName == "" {
		return &ValidationError{Field: "first_name", Message: "is required"}
	}
	if c.Email == nil || *c.Email == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	return nil
}
