package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	var started string
	err := Register("test-registry", func(name, location string, opts *Options) (Interface, error) {
		started = name + "@" + location
		return nil, nil
	})
	require.NoError(t, err)
	assert.Error(t, Register("test-registry", nil), "duplicate registration")

	assert.True(t, IsRegistered("test-registry"))
	assert.Contains(t, Types(), "test-registry")

	_, err = StartDatabase("people", "test-registry", "/tmp/people", nil)
	require.NoError(t, err)
	assert.Equal(t, "people@/tmp/people", started)

	_, err = StartDatabase("people", "unknown", "", nil)
	assert.ErrorIs(t, err, ErrUnknownStorage)
}
