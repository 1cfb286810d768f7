package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"invalid state", InvalidState("not pending"), http.StatusBadRequest},
		{"conflict", Conflict("duplicate"), http.StatusBadRequest},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"forbidden", Forbidden("nope"), http.StatusForbidden},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped internal", Wrap(errors.New("conn reset"), "db"), http.StatusInternalServerError},
		{"fmt wrapped domain", fmt.Errorf("ctx: %w", NotFound("x")), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestIsByKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", InvalidState("Content is not pending"))
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, "insert comment")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Server error", PublicMessage(err))

	domain := NotFound("Post not found")
	assert.Same(t, domain, Wrap(domain, "ignored"))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestPublicMessageAndDetails(t *testing.T) {
	err := Validation("Validation failed", "title is required", "content is required")
	assert.Equal(t, "Validation failed", PublicMessage(err))
	assert.Equal(t, []string{"title is required", "content is required"}, DetailsOf(err))
	assert.Contains(t, err.Error(), "title is required")
}
