package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCandidateInput_Overlay_PhoneOnly(t *testing.T) {
	stored := CandidateInput{
		FirstName: strPtr("Ana"),
		LastName:  strPtr("Putri"),
		Email:     strPtr("ana@example.com"),
		Phone:     strPtr("555-0000"),
		Skills:    []string{"Go", "SQL"},
		Experiences: []Experience{
			{Company: "Acme", Role: "Engineer", StartDate: "2019-01-01", EndDate: "2021-01-01"},
		},
		Education: []Education{{Institution: "UI", Degree: "B.Sc. CS"}},
	}

	merged := stored.Overlay(CandidateInput{Phone: strPtr("555-1234")})

	require.NotNil(t, merged.Phone)
	assert.Equal(t, "555-1234", *merged.Phone)
	assert.Equal(t, "Ana", *merged.FirstName)
	assert.Equal(t, "Putri", *merged.LastName)
	assert.Equal(t, stored.Skills, merged.Skills)
	assert.Equal(t, stored.Experiences, merged.Experiences)
	assert.Equal(t, stored.Education, merged.Education)

	// the stored value is untouched
	assert.Equal(t, "555-0000", *stored.Phone)
}

func TestCandidateInput_Overlay_ReplacesLists(t *testing.T) {
	stored := CandidateInput{Skills: []string{"Go"}}
	merged := stored.Overlay(CandidateInput{Skills: []string{"Rust", "C"}})
	assert.Equal(t, []string{"Rust", "C"}, merged.Skills)

	// an empty, non-nil list is a supplied value
	merged = stored.Overlay(CandidateInput{Skills: []string{}})
	assert.Empty(t, merged.Skills)
}

func TestCandidateInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   CandidateInput
		wantErr bool
	}{
		{name: "empty payload", input: CandidateInput{}},
		{name: "valid email", input: CandidateInput{Email: strPtr("a@b.co")}},
		{name: "bad email", input: CandidateInput{Email: strPtr("not-an-email")}, wantErr: true},
		{name: "bad birthdate", input: CandidateInput{Birthdate: strPtr("01/02/1990")}, wantErr: true},
		{
			name:    "bad experience date",
			input:   CandidateInput{Experiences: []Experience{{StartDate: "2020-13-01"}}},
			wantErr: true,
		},
		{
			name:  "ongoing experience",
			input: CandidateInput{Experiences: []Experience{{Company: "Acme", Role: "Dev", StartDate: "2020-01-01"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCandidateInput_ValidateNew(t *testing.T) {
	tests := []struct {
		name      string
		input     CandidateInput
		wantField string
	}{
		{name: "complete", input: CandidateInput{FirstName: strPtr("Ada"), Email: strPtr("ada@example.com")}},
		{name: "missing first name", input: CandidateInput{Email: strPtr("ada@example.com")}, wantField: "first_name"},
		{name: "empty email", input: CandidateInput{FirstName: strPtr("Ada"), Email: strPtr("")}, wantField: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.ValidateNew()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}
