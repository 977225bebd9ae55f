package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvyt/rifa/internal/shared/errors"
)

type buyerInput struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Document string `json:"document" validate:"omitempty,document"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   buyerInput
		wantErr string
	}{
		{"valid", buyerInput{Name: "Ana Souza", Email: "ana@example.com", Phone: "(11) 98888-7777", Document: "123.456.789-09"}, ""},
		{"missing email", buyerInput{Name: "Ana"}, "email is required"},
		{"malformed email", buyerInput{Name: "Ana", Email: "ana@"}, "email must be a valid email address"},
		{"bad phone", buyerInput{Name: "Ana", Email: "ana@example.com", Phone: "123"}, "phone must be a valid phone number"},
		{"bad document", buyerInput{Name: "Ana", Email: "ana@example.com", Document: "12345"}, "document must be a valid CPF or CNPJ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Contains(t, errors.GetAppError(err).Details, tt.wantErr)
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "12345678909", DigitsOnly("123.456.789-09", false))
	assert.Equal(t, "+5511988887777", DigitsOnly("+55 (11) 98888-7777", true))
	assert.Equal(t, "5511", DigitsOnly("+55 11", false))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "a***@example.com", MaskEmail("ana@example.com"))
	assert.Equal(t, "***", MaskEmail("invalid"))
	assert.Equal(t, "*********09", MaskDocument("12345678909"))
}
