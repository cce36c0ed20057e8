package core

import "sync"

// BatchResult is the per-item outcome of RunBounded. Exactly one result is
// produced per input item, in input order.
type BatchResult[T, R any] struct {
	Item  T
	Value R
	Err   error
}

func (r BatchResult[T, R]) Ok() bool {
	return r.Err == nil
}

// RunBounded runs task over items with at most limit tasks in flight. Items are
// processed in sequential batches of limit; a batch must fully complete before
// the next one starts, so peak concurrency never exceeds the ceiling. A failing
// item records its error in its result and never aborts the batch.
func RunBounded[T, R any](items []T, limit int, task func(T) (R, error)) []BatchResult[T, R] {
	if limit < 1 {
		limit = 1
	}

	results := make([]BatchResult[T, R], len(items))

	for start := 0; start < len(items); start += limit {
		end := start + limit
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				value, err := task(items[i])
				results[i] = BatchResult[T, R]{Item: items[i], Value: value, Err: err}
			}(i)
		}
		wg.Wait()
	}

	return results
}
