package virtdata

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxApplyAsLong(t *testing.T) {
	tests := []struct {
		name  string
		floor int64
		input int64
		want  int64
	}{
		{name: "equal to floor", floor: 42, input: 42, want: 42},
		{name: "below floor", floor: 42, input: 10, want: 42},
		{name: "above floor", floor: 42, input: 100, want: 100},
		{name: "negative floor", floor: -42, input: -100, want: -42},
		{name: "negative floor, larger input", floor: -42, input: -1, want: -1},
		{name: "min int input", floor: 0, input: math.MinInt64, want: 0},
		{name: "max int input", floor: 0, input: math.MaxInt64, want: math.MaxInt64},
		{name: "min int floor", floor: math.MinInt64, input: math.MinInt64, want: math.MinInt64},
		{name: "max int floor", floor: math.MaxInt64, input: math.MinInt64, want: math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMax(tt.floor).ApplyAsLong(tt.input))
		})
	}
}

func TestMaxConcurrentUse(t *testing.T) {
	m := NewMax(7)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			for v := seed - 50; v < seed+50; v++ {
				assert.Equal(t, max(v, 7), m.ApplyAsLong(v))
			}
		}(int64(i))
	}
	wg.Wait()
}

func TestMaxString(t *testing.T) {
	assert.Equal(t, "Max(-42L)", NewMax(-42).String())
	assert.Equal(t, int64(-42), NewMax(-42).Floor())
}
