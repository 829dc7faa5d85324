package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions configura el comportamiento del procesamiento paralelo
type ParallelOptions struct {
	// MaxWorkers es el número máximo de trabajadores en paralelo
	MaxWorkers int
}

// DefaultOptions devuelve opciones predeterminadas para procesamiento paralelo
func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 4,
	}
}

func (o ParallelOptions) workers(n int) int {
	w := o.MaxWorkers
	if w <= 0 {
		w = DefaultOptions().MaxWorkers
	}
	// Use fewer workers if we have fewer items
	if w > n {
		w = n
	}
	return w
}

// ProcessParallel runs itemFunc for every item on a bounded pool and returns the results
// in input order. Items skipped because ctx was cancelled report ctx.Err().
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	type indexed struct {
		index  int
		result R
		err    error
	}

	jobs := make(chan int, len(items))
	results := make(chan indexed, len(items))

	var wg sync.WaitGroup
	for w := 0; w < opts.workers(len(items)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results <- indexed{index: i, err: err}
					continue
				}
				r, err := itemFunc(ctx, i, items[i])
				results <- indexed{index: i, result: r, err: err}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	resultList := make([]R, len(items))
	var errs []error
	for res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
		}
		resultList[res.index] = res.result
	}

	return resultList, errs
}

// ForEach runs itemFunc for every item on a bounded pool without collecting results.
// Items not started before ctx is cancelled are skipped silently.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) error,
) []error {
	if len(items) == 0 {
		return nil
	}

	jobs := make(chan int, len(items))
	errCh := make(chan error, len(items))

	var wg sync.WaitGroup
	for w := 0; w < opts.workers(len(items)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				if err := itemFunc(ctx, i, items[i]); err != nil {
					errCh <- err
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(errCh)

	var errList []error
	for err := range errCh {
		errList = append(errList, err)
	}
	return errList
}
