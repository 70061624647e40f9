package core

// Batcher splits a queue of items into consecutive batches of a fixed size.
// The last batch holds the remainder. It is a single use iterator.
type Batcher[T any] struct {
	items []T
	size  int
	next  int
}

func NewBatcher[T any](items []T, size int) (*Batcher[T], error) {
	if size <= 0 {
		return nil, ErrInvalidBatchSize
	}

	queue := make([]T, len(items))
	copy(queue, items)

	return &Batcher[T]{
		items: queue,
		size:  size,
	}, nil
}

func (b *Batcher[T]) HasNext() bool {
	return b.next < len(b.items)
}

// Next returns the following batch or ErrEmptyIteration once every item
// was handed out.
func (b *Batcher[T]) Next() ([]T, error) {
	if !b.HasNext() {
		return nil, ErrEmptyIteration
	}

	end := min(b.next+b.size, len(b.items))
	batch := b.items[b.next:end:end]
	b.next = end

	return batch, nil
}

// Len is the number of batches not yet returned.
func (b *Batcher[T]) Len() int {
	left := len(b.items) - b.next
	return (left + b.size - 1) / b.size
}

// Size is the configured batch size.
func (b *Batcher[T]) Size() int {
	return b.size
}
