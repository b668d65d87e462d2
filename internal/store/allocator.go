package store

// NextID returns the next identifier for a collection: one more than the
// largest existing id, or 1 for an empty collection. Callers must
// serialize creates per collection; the result is only safe while no
// concurrent create is in flight.
func NextID[T Record](records []T) int {
	max := 0
	for _, rec := range records {
		if id := rec.GetID(); id > max {
			max = id
		}
	}
	return max + 1
}
