package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStorageError("users.add", cause)

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "storage error: users.add: connection reset", err.Error())

	var se *StorageError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "users.add", se.Op)
}
