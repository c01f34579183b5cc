package respawn

// Queue holds characters that died inside an instance and are waiting for
// their next teleport to be evaluated. Insertion order is preserved.
// Not safe for concurrent use: Module serializes all access.
type Queue struct {
	order []int64
	index map[int64]struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		index: make(map[int64]struct{}, 16),
	}
}

// Enqueue appends the character unless it is already queued.
func (q *Queue) Enqueue(characterID int64) bool {
	if _, ok := q.index[characterID]; ok {
		return false
	}
	q.index[characterID] = struct{}{}
	q.order = append(q.order, characterID)
	return true
}

// DequeueIfPresent removes the character and reports whether it was queued.
func (q *Queue) DequeueIfPresent(characterID int64) bool {
	if _, ok := q.index[characterID]; !ok {
		return false
	}
	delete(q.index, characterID)
	for i, id := range q.order {
		if id == characterID {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	return true
}

// Remove drops the character if queued (logout cleanup).
func (q *Queue) Remove(characterID int64) {
	q.DequeueIfPresent(characterID)
}

// Contains reports whether the character is queued.
func (q *Queue) Contains(characterID int64) bool {
	_, ok := q.index[characterID]
	return ok
}

// Len returns the number of queued characters.
func (q *Queue) Len() int {
	return len(q.order)
}

// IDs returns queued character IDs in insertion order.
func (q *Queue) IDs() []int64 {
	out := make([]int64, len(q.order))
	copy(out, q.order)
	return out
}
