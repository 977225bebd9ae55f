package buyer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvyt/rifa/internal/shared/errors"
)

func TestNewBuyer(t *testing.T) {
	b, err := NewBuyer(" Ana Souza ", " Ana@Example.com ", "+55 (11) 98888-7777", "123.456.789-09")
	require.NoError(t, err)

	assert.Equal(t, "Ana Souza", b.Name())
	assert.Equal(t, "ana@example.com", b.Email())
	assert.Equal(t, "+5511988887777", b.Phone())
	assert.Equal(t, "12345678909", b.Document())
	assert.NotEmpty(t, b.SID())
}

func TestNewBuyer_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		bname string
		email string
	}{
		{"missing name", "", "a@b.com"},
		{"missing email", "Ana", ""},
		{"malformed email", "Ana", "not-an-email"},
		{"display name form", "Ana", "Ana <a@b.com>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuyer(tt.bname, tt.email, "", "")
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestUpdateContact_KeepsDocumentWhenEmpty(t *testing.T) {
	b, err := NewBuyer("Ana", "a@b.com", "", "12345678909")
	require.NoError(t, err)

	require.NoError(t, b.UpdateContact("Ana Maria", "11999990000", ""))

	assert.Equal(t, "Ana Maria", b.Name())
	assert.Equal(t, "11999990000", b.Phone())
	assert.Equal(t, "12345678909", b.Document())
	assert.Equal(t, "a@b.com", b.Email())
}
