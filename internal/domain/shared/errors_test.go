package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	t.Run("matches by code", func(t *testing.T) {
		err := NewDomainError(CodeAlreadyExists, "Bill number 'A' already exists.")
		assert.ErrorIs(t, err, ErrAlreadyExists)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("unwraps cause", func(t *testing.T) {
		cause := errors.New("broker down")
		err := NewDomainErrorWithCause(CodePublishFailed, "publish failed", cause)
		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), cause)
	})
}

func TestValidationError(t *testing.T) {
	t.Run("keeps field and message order", func(t *testing.T) {
		v := NewValidationError()
		v.Add("billNumber", "Bill number is required.")
		v.Add("lines.concept", "Line concept is required.")
		v.Add("billNumber", "second")

		assert.True(t, v.HasErrors())
		assert.Equal(t, []string{"Bill number is required.", "second"}, v.Messages("billNumber"))
		assert.Equal(t, []FieldError{
			{Field: "billNumber", Message: "Bill number is required."},
			{Field: "billNumber", Message: "second"},
			{Field: "lines.concept", Message: "Line concept is required."},
		}, v.Items())
	})

	t.Run("merges other errors", func(t *testing.T) {
		a := NewValidationError()
		a.Add("currency", "Currency must be a 3-letter ISO code.")
		b := NewValidationError()
		b.Add("lines.quantity", "Line quantity must be greater than zero.")
		b.Add("currency", "again")

		a.Merge(b)
		a.Merge(nil)

		assert.Equal(t, map[string][]string{
			"currency":       {"Currency must be a 3-letter ISO code.", "again"},
			"lines.quantity": {"Line quantity must be greater than zero."},
		}, a.Fields())
	})

	t.Run("empty has no errors", func(t *testing.T) {
		var v *ValidationError
		assert.False(t, v.HasErrors())
		assert.False(t, NewValidationError().HasErrors())
	})

	t.Run("error text lists violations", func(t *testing.T) {
		v := NewValidationError()
		v.Add("tax", "Tax cannot be negative.")
		assert.Equal(t, "validation failed: tax: Tax cannot be negative.", v.Error())
		assert.Equal(t, CodeValidation, v.Code())
	})
}
