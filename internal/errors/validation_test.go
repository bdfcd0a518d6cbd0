package errors

import (
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("answers.4", "must be between 1 and 5", 9)

	assert.Equal(t, "answers.4", err.Field)
	assert.Equal(t, 9, err.Value)
	assert.Equal(t, "answers.4 must be between 1 and 5", err.Error())
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())
	assert.NoError(t, errs.ErrOrNil())

	errs = errs.Add("email", "is required", nil)
	assert.Equal(t, "validation failed: email is required", errs.Error())

	errs = errs.Add("age", "must be at least 16", 12)
	assert.Equal(t, "validation failed: email, age", errs.Error())
	assert.Equal(t, []string{"email", "age"}, errs.Fields())
	assert.Error(t, errs.ErrOrNil())
}

func TestToValidationErrors(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"max=3"`
		Kind  string `validate:"hexcolor"`
	}

	v := validator.New()
	err := v.Struct(payload{Email: "nope", Name: "Alexandra", Kind: "blue"})
	require.Error(t, err)

	errs := ToValidationErrors(fmt.Errorf("create employee: %w", err))
	require.Len(t, errs, 3)
	assert.Equal(t, "must be a valid email address", errs[0].Message)
	assert.Equal(t, "email", errs[0].Rule)
	assert.Equal(t, "must be at most 3", errs[1].Message)
	assert.Equal(t, `failed the "hexcolor" check`, errs[2].Message)

	assert.Empty(t, ToValidationErrors(assert.AnError))
}
