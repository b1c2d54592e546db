package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Name     string `validate:"required,max=10"`
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}

	t.Run("valid", func(t *testing.T) {
		details := ValidateStruct(payload{Name: "Ada", Email: "ada@example.com", Password: "correcthorse1"})
		assert.Nil(t, details)
	})

	t.Run("missing fields", func(t *testing.T) {
		details := ValidateStruct(payload{})
		require.Len(t, details, 3)
		assert.Equal(t, "name", details[0].Field)
		assert.Equal(t, "Name is required", details[0].Message)
	})

	t.Run("translated messages", func(t *testing.T) {
		details := ValidateStruct(payload{Name: "much-too-long-name", Email: "nope", Password: "short"})
		require.Len(t, details, 3)
		assert.Equal(t, "Name must be at most 10 characters", details[0].Message)
		assert.Equal(t, "Email must be a valid email address", details[1].Message)
		assert.Equal(t, "Password must be at least 8 characters", details[2].Message)
	})
}
