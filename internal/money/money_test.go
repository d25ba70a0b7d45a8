package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimes(t *testing.T) {
	assert.Equal(t, 45.0, Times(22.5, 2))
	assert.Equal(t, 0.3, Times(0.1, 3))
	assert.Equal(t, 0.0, Times(19.9, 0))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0.3, Sum(0.1, 0.2))
	assert.Equal(t, 0.0, Sum())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "45.00", Format(45))
	assert.Equal(t, "19.90", Format(19.9))
}
