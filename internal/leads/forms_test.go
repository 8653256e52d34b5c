package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewForm(t *testing.T) {
	f := &ReviewForm{Title: "  Fast  ", Author: "Sam", Content: "Great speeds."}
	f.Normalize()
	require.NoError(t, f.Validate())
	assert.Equal(t, "Fast", f.Title)
	assert.Equal(t, DefaultReviewRating, f.Rating)

	f = &ReviewForm{Title: " ", Rating: 9}
	f.Normalize()
	fields, ok := IsValidation(f.Validate())
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"title":   "is required",
		"author":  "is required",
		"content": "is required",
		"rating":  "must be between 1 and 5",
	}, fields)
}

func TestNewsletterForm(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"sam@example.com", true},
		{" sam@example.com ", true},
		{"", false},
		{"sam", false},
		{"sam@", false},
		{"Sam <sam@example.com>", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			f := &NewsletterForm{Email: tt.email}
			f.Normalize()
			err := f.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			fields, ok := IsValidation(err)
			require.True(t, ok)
			assert.Contains(t, fields, "email")
		})
	}
}

func TestCallbackForm(t *testing.T) {
	f := &CallbackForm{Name: "Sam", Email: "sam@example.com", Phone: "021 555 0100", Postcode: "6011"}
	f.Normalize()
	require.NoError(t, f.Validate(), "provider is optional")

	f = &CallbackForm{Email: "nope"}
	f.Normalize()
	fields, ok := IsValidation(f.Validate())
	require.True(t, ok)
	assert.Len(t, fields, 4)
	assert.Equal(t, "must be a valid email address", fields["email"])
}
