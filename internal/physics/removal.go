package physics

// RemovalQueue buffers body removals requested from collision listeners so
// they can be applied after the step that produced them.
type RemovalQueue struct {
	pending []*Body
	queued  map[*Body]struct{}
}

func NewRemovalQueue() *RemovalQueue {
	return &RemovalQueue{queued: make(map[*Body]struct{})}
}

// Enqueue schedules b for removal. Returns false if b is nil or already queued.
func (q *RemovalQueue) Enqueue(b *Body) bool {
	if b == nil {
		return false
	}
	if _, ok := q.queued[b]; ok {
		return false
	}
	q.queued[b] = struct{}{}
	q.pending = append(q.pending, b)
	return true
}

func (q *RemovalQueue) Pending(b *Body) bool {
	_, ok := q.queued[b]
	return ok
}

func (q *RemovalQueue) Len() int {
	return len(q.pending)
}

// Flush removes every queued body still in w and returns them in queue
// order. Bodies that already left the world are skipped.
func (q *RemovalQueue) Flush(w *World) []*Body {
	if len(q.pending) == 0 {
		return nil
	}
	removed := make([]*Body, 0, len(q.pending))
	pending := q.pending
	q.pending = nil
	clear(q.queued)
	for _, b := range pending {
		if w.RemoveBody(b) {
			removed = append(removed, b)
		}
	}
	return removed
}

// Reset drops every queued request without touching the world.
func (q *RemovalQueue) Reset() {
	q.pending = nil
	clear(q.queued)
}
