package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunIDGenerator_Default(t *testing.T) {
	gen := NewFixedRunIDGenerator("")
	assert.Equal(t, DefaultRunID, gen.Generate())
	assert.Equal(t, DefaultRunID, gen.Generate())
}

func TestFixedRunIDGenerator_Custom(t *testing.T) {
	gen := NewFixedRunIDGenerator("run-42")
	for i := 0; i < 3; i++ {
		assert.Equal(t, "run-42", gen.Generate())
	}
}
