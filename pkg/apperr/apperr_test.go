package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := fmt.Errorf("toggle like: %w", Wrap(KindConflict, "already liked", cause))

	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindNotFound))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestMessageHidesWrappedError(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal("failed to fetch posts", cause)

	assert.Equal(t, "failed to fetch posts", Message(err))
	assert.NotContains(t, Message(err), "pq:")
	// The full chain stays available for logging.
	assert.Contains(t, err.Error(), "pq: connection refused")
}

func TestUntaggedErrorDefaults(t *testing.T) {
	err := errors.New("something store-shaped")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "internal error", Message(err))
	// Is only matches tagged errors; untagged ones carry no kind.
	assert.False(t, Is(err, KindInternal))
	assert.False(t, Is(nil, KindInternal))
}

func TestEWithoutCause(t *testing.T) {
	err := E(KindSelfReference, "cannot follow yourself")

	assert.Equal(t, "self_reference: cannot follow yourself", err.Error())
	assert.Nil(t, err.Unwrap())
}
