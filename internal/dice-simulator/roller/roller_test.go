package roller

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawStaysInRange(t *testing.T) {
	r := &Roller{Rnd: rand.New(rand.NewSource(1))}
	for i := 0; i < 1000; i++ {
		d1, d2 := r.Draw()
		assert.GreaterOrEqual(t, d1, 1)
		assert.LessOrEqual(t, d1, 6)
		assert.GreaterOrEqual(t, d2, 1)
		assert.LessOrEqual(t, d2, 6)
	}
}

func TestDrawIsReproducibleWithFixedSeed(t *testing.T) {
	a := &Roller{Rnd: rand.New(rand.NewSource(42))}
	b := &Roller{Rnd: rand.New(rand.NewSource(42))}
	for i := 0; i < 100; i++ {
		a1, a2 := a.Draw()
		b1, b2 := b.Draw()
		assert.Equal(t, a1, b1)
		assert.Equal(t, a2, b2)
	}
}
