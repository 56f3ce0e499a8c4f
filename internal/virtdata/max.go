package virtdata

// LongUnaryOperator maps one int64 to another.
type LongUnaryOperator interface {
	ApplyAsLong(v int64) int64
}

// Max returns the greater of the input value and the configured floor.
// It holds no mutable state and is safe for concurrent use.
type Max struct {
	floor int64
}

func NewMax(floor int64) Max {
	return Max{floor: floor}
}

func (m Max) Floor() int64 {
	return m.floor
}

func (m Max) ApplyAsLong(v int64) int64 {
	return max(v, m.floor)
}

func (m Max) String() string {
	return formatCall("Max", m.floor)
}
