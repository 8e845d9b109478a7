package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsUUIDShaped(t *testing.T) {
	v := New()
	assert.Len(t, v, 36)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, v)
}

func TestShort(t *testing.T) {
	a := Short()
	b := Short()
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}
