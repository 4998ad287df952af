package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddZeroPadsShorterOperand(t *testing.T) {
	assert.Equal(t, Frame{0.5}, Add(Frame{0.2}, Frame{0.3}))
	assert.Equal(t, Frame{1.5, 2, 3}, Add(Frame{0.5}, Frame{1, 2, 3}))
	assert.Equal(t, Frame{1.5, 2, 3}, Add(Frame{1, 2, 3}, Frame{0.5}))
	assert.Equal(t, Frame{1, 2}, Add(None(), Frame{1, 2}))
}

func TestAddDoesNotAliasOperands(t *testing.T) {
	a := Frame{1, 2}
	sum := Add(a, Frame{1})
	sum[0] = 9
	assert.Equal(t, Frame{1, 2}, a)
}

func TestAccumulateGrowsInPlace(t *testing.T) {
	dst := make(Frame, 1, 4)
	dst[0] = 1
	dst = Accumulate(dst, Frame{1, 1, 1})
	assert.Equal(t, Frame{2, 1, 1}, dst)
	assert.Equal(t, 4, cap(dst))

	dst = AddScaled(dst, Frame{2}, 0.5)
	assert.Equal(t, Frame{3, 1, 1}, dst)
}

func TestScale(t *testing.T) {
	assert.Equal(t, Frame{0.5, -1}, Frame{1, -2}.Scale(0.5))
}

func TestApplyCyclesShorterOperand(t *testing.T) {
	f := Frame{1, 2, 3, 4}.Apply(Frame{0.5})
	assert.Equal(t, Frame{0.5, 1, 1.5, 2}, f)

	f = Frame{1, 1, 1, 1}.Apply(Frame{2, 3})
	assert.Equal(t, Frame{2, 3, 2, 3}, f)

	f = Frame{1, 2}.Apply(None())
	assert.Equal(t, Frame{1, 2}, f)
}

func TestPolify(t *testing.T) {
	assert.Equal(t, Frame{1, 2, 1, 2}, Frame{1, 2}.Polify(2))
	assert.Equal(t, Frame{7, 7, 7}, Frame{7}.Polify(3))
	assert.Equal(t, Frame{1}, Frame{1}.Polify(1))
	assert.Panics(t, func() { Frame{1}.Polify(0) })
}

func TestLinearMapExactAtBoundaries(t *testing.T) {
	f := Frame{-1, 0, 1}.LinearMap(Interval{-1, 1}, Interval{0, 1})
	assert.Equal(t, Frame{0, 0.5, 1}, f)

	f = Frame{0.1, 0.7}.LinearMap(Interval{0.1, 0.7}, Interval{-3.3, 9.1})
	assert.Equal(t, -3.3, f[0])
	assert.Equal(t, 9.1, f[1])

	assert.Panics(t, func() { Frame{1}.LinearMap(Interval{2, 2}, Interval{0, 1}) })
}

func TestNoneIsNotSilence(t *testing.T) {
	assert.True(t, None().IsNone())
	assert.False(t, Silence(2).IsNone())
	assert.Equal(t, 2, Silence(2).Channels())
	assert.False(t, None().Equal(Silence(1)))
	assert.True(t, Frame{}.Equal(None()))
}

func TestClone(t *testing.T) {
	f := Frame{1, 2}
	c := f.Clone()
	c[0] = 5
	assert.Equal(t, 1.0, f[0])
	assert.Nil(t, None().Clone())
}
