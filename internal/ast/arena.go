package ast

// Arena hands out values from fixed-size blocks, so pointers to earlier values
// stay valid as the arena grows.
type Arena[T any] struct {
	blocks [][]T
	size   int
	n      uint32
}

// NewArena creates an arena whose blocks hold blockSize values; zero picks a default.
func NewArena[T any](blockSize uint) *Arena[T] {
	if blockSize == 0 {
		blockSize = 1 << 8
	}
	return &Arena[T]{size: int(blockSize)}
}

// Allocate copies value into the arena and returns a pointer to the copy.
func (a *Arena[T]) Allocate(value T) *T {
	if len(a.blocks) == 0 || len(a.blocks[len(a.blocks)-1]) == a.size {
		a.blocks = append(a.blocks, make([]T, 0, a.size))
	}
	last := len(a.blocks) - 1
	a.blocks[last] = append(a.blocks[last], value)
	a.n++
	return &a.blocks[last][len(a.blocks[last])-1]
}

// Len is the number of values allocated so far.
func (a *Arena[T]) Len() uint32 {
	return a.n
}
