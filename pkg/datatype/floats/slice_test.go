package floats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPush(t *testing.T) {
	var a Slice
	a.Push(1.0)
	a.Push(2.0)
	assert.Equal(t, Slice{1.0, 2.0}, a)
	assert.Equal(t, 2, a.Length())
}

func TestLastAndIndex(t *testing.T) {
	a := New(1, 2, 3, 4, 5)
	assert.Equal(t, 5.0, a.Last())
	assert.Equal(t, 5.0, a.Index(0))
	assert.Equal(t, 3.0, a.Index(2))
	assert.Equal(t, 0.0, a.Index(5))

	var empty Slice
	assert.Equal(t, 0.0, empty.Last())
}

func TestMinMaxSumMean(t *testing.T) {
	a := New(3, 1, 4, 1, 5)
	assert.Equal(t, 1.0, a.Min())
	assert.Equal(t, 5.0, a.Max())
	assert.Equal(t, 14.0, a.Sum())
	assert.Equal(t, 2.8, a.Mean())

	var empty Slice
	assert.Equal(t, 0.0, empty.Mean())
}

func TestTail(t *testing.T) {
	a := New(1, 2, 3, 4, 5)
	assert.Equal(t, Slice{4, 5}, a.Tail(2))
	assert.Equal(t, Slice{1, 2, 3, 4, 5}, a.Tail(10))

	// Tail must copy, not alias
	b := a.Tail(2)
	b[0] = 42.0
	assert.Equal(t, 4.0, a[3])
}

func TestAbsoluteValues(t *testing.T) {
	a := New(-1, 2, -3)
	assert.Equal(t, Slice{1, 2, 3}, a.AbsoluteValues())
}
