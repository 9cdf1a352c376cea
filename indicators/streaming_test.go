package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleMAStreaming(t *testing.T) {
	t.Parallel()

	t.Run("basic functionality", func(t *testing.T) {
		ma := NewMA(3)
		assert.Equal(t, "MA(3)", ma.Name())
		assert.Equal(t, 3, ma.Warmup())
		assert.False(t, ma.Ready())
		assert.Equal(t, 0.0, ma.Value())

		ma.Update(102)
		ma.Update(105)
		assert.False(t, ma.Ready())

		ma.Update(106)
		assert.True(t, ma.Ready())
		assert.InDelta(t, (102.0+105.0+106.0)/3.0, ma.Value(), 1e-9)

		// rolls off the oldest value
		ma.Update(108)
		assert.InDelta(t, (105.0+106.0+108.0)/3.0, ma.Value(), 1e-9)
	})

	t.Run("reset", func(t *testing.T) {
		ma := NewMA(2)
		ma.Update(1)
		ma.Update(2)
		assert.True(t, ma.Ready())

		ma.Reset()
		assert.False(t, ma.Ready())
		ma.Update(10)
		ma.Update(20)
		assert.InDelta(t, 15, ma.Value(), 1e-9)
	})

	t.Run("matches batch", func(t *testing.T) {
		batch, err := SMA(closes, 4)
		assert.NoError(t, err)
		ma := NewMA(4)
		for i, p := range closes {
			ma.Update(p)
			if ma.Ready() {
				assert.InDelta(t, batch[i], ma.Value(), 1e-9)
			}
		}
	})
}

func TestExponentialMAStreaming(t *testing.T) {
	t.Parallel()

	e := NewEMA(2)
	assert.Equal(t, "EMA(2)", e.Name())
	assert.Equal(t, 2, e.Warmup())

	e.Update(10)
	assert.False(t, e.Ready())
	assert.Equal(t, 0.0, e.Value())

	e.Update(20)
	assert.True(t, e.Ready())
	assert.InDelta(t, 15, e.Value(), 1e-9)

	// k = 2/3
	e.Update(30)
	assert.InDelta(t, 15+(30-15)*2.0/3.0, e.Value(), 1e-9)

	e.Reset()
	assert.False(t, e.Ready())
}

func TestIndicatorInterface(t *testing.T) {
	t.Parallel()

	var _ Indicator = NewMA(1)
	var _ Indicator = NewEMA(1)
}
