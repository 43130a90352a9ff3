package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	t.Run("Identical points", func(t *testing.T) {
		assert.Zero(t, Haversine(-42.8821, 147.3272, -42.8821, 147.3272))
	})

	t.Run("One degree of longitude at the equator", func(t *testing.T) {
		assert.InDelta(t, 111.19, Haversine(0, 0, 0, 1), 0.01)
	})

	t.Run("Hobart to Launceston", func(t *testing.T) {
		d := Haversine(-42.8821, 147.3272, -41.4332, 147.1441)
		assert.InDelta(t, 161.8, d, 2.0)
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := Haversine(-42.8821, 147.3272, -41.4332, 147.1441)
		b := Haversine(-41.4332, 147.1441, -42.8821, 147.3272)
		assert.Equal(t, a, b)
	})
}
