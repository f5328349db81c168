package runner

import (
	"context"
	"sync"

	"revclass/internal/classify"
)

// Result pairs a record with its decision, or with the rejection error for
// records the classifier refused.
type Result struct {
	Seq      int
	Record   classify.Record
	Decision classify.Decision
	Err      error
}

// Runner fans records out to a fixed number of workers.
type Runner struct {
	classifier *classify.Classifier
	workers    int
}

// New creates a Runner; workers below one are clamped to one.
func New(classifier *classify.Classifier, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{classifier: classifier, workers: workers}
}

// Process classifies a chunk and returns results in input order. seqBase
// is the input position of the first record, carried through so callers
// can persist resumable sequence numbers. A canceled context abandons the
// chunk and returns the context error.
func (r *Runner) Process(ctx context.Context, seqBase int, records []classify.Record) ([]Result, error) {
	if len(records) == 0 {
		return nil, ctx.Err()
	}

	workers := r.workers
	if workers > len(records) {
		workers = len(records)
	}

	results := make([]Result, len(records))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				dec, err := r.classifier.Classify(records[i])
				results[i] = Result{Seq: seqBase + i, Record: records[i], Decision: dec, Err: err}
			}
		}()
	}

dispatch:
	for i := range records {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
