package aggregates

import "sync/atomic"

// KeySequence hands out monotonically increasing numbers for human-readable keys.
type KeySequence struct {
	n      atomic.Int64
	format func(int64) string
}

func NewKeySequence(format func(int64) string) *KeySequence {
	return &KeySequence{format: format}
}

func (s *KeySequence) Next() string {
	return s.format(s.n.Add(1))
}
