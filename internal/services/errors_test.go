package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("handler: %w", conflictError("already favorited", cause))

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, "already favorited", MessageOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	assert.Equal(t, KindSystem, KindOf(cause))
	assert.Equal(t, "internal server error", MessageOf(cause))
}

func TestError_Error(t *testing.T) {
	assert.Equal(t, "product not found", notFoundError("product not found").Error())
	assert.Equal(t, "search failed: boom", systemError("search failed", errors.New("boom")).Error())
}
