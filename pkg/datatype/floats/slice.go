package floats

import (
	"math"
)

type Slice []float64

func New(a ...float64) Slice {
	return Slice(a)
}

func (s Slice) Length() int {
	return len(s)
}

func (s *Slice) Push(v float64) {
	*s = append(*s, v)
}

func (s Slice) Last() float64 {
	if len(s) == 0 {
		return 0.0
	}
	return s[len(s)-1]
}

// Index fetches the element from the end of the slice
// Index(0) is the same as Last()
func (s Slice) Index(i int) float64 {
	length := len(s)
	if length == 0 || length-i-1 < 0 {
		return 0.0
	}
	return s[length-i-1]
}

func (s Slice) Max() float64 {
	m := -math.MaxFloat64
	for _, v := range s {
		m = math.Max(m, v)
	}
	return m
}

func (s Slice) Min() float64 {
	m := math.MaxFloat64
	for _, v := range s {
		m = math.Min(m, v)
	}
	return m
}

func (s Slice) Sum() (sum float64) {
	for _, v := range s {
		sum += v
	}
	return sum
}

func (s Slice) Mean() (mean float64) {
	length := len(s)
	if length == 0 {
		return 0.0
	}
	return s.Sum() / float64(length)
}

// Tail returns the last size elements as a copy
func (s Slice) Tail(size int) Slice {
	length := len(s)
	if length <= size {
		win := make(Slice, length)
		copy(win, s)
		return win
	}

	win := make(Slice, size)
	copy(win, s[length-size:])
	return win
}

func (s Slice) AbsoluteValues() Slice {
	var values Slice
	for _, v := range s {
		values.Push(math.Abs(v))
	}
	return values
}
