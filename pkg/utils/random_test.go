package utils

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomUint64(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := RandomUint64(r, 50, 150)
		assert.True(t, v >= 50 && v < 200, "%d", v)
	}
	assert.Equal(t, uint64(7), RandomUint64(r, 7, 0))
}

func TestRandomFloat(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := RandomFloat(r, 0.8, 1.3)
		assert.True(t, v >= 0.8 && v < 1.3, "%f", v)
	}
}
