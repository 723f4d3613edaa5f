package lift

import (
	"context"
	"sync"
)

// ProgressInterval is the number of records between OnProgress calls.
const ProgressInterval = 1000

// Record is one row of a pair table. Fields carries the row's other columns
// untouched.
type Record struct {
	Pair
	Fields []string
}

// Result is a Record with its lifted coordinates. Lifted is the zero Pair when
// Mappable is false.
type Result struct {
	Record
	Lifted   Pair
	Mappable bool
}

type TableOptions struct {
	// DropUnmappable removes unmappable records from the output. Retained
	// records keep their input order.
	DropUnmappable bool

	// Threads is the number of worker goroutines; values below 2 run
	// sequentially.
	Threads int

	// OnProgress, if set, is called with the number of records processed so far
	// and the table size each time a chunk of ProgressInterval records (the last
	// one may be shorter) finishes. It is always called from the calling
	// goroutine and has no effect on the results.
	OnProgress func(current, total int)
}

// LiftTable applies LiftPair to every record. Results are in input order
// whatever the thread count.
//
// If ctx is cancelled, no new chunks are started and LiftTable returns the
// results for the longest fully processed prefix of records along with
// ctx.Err().
func (l *Lifter) LiftTable(ctx context.Context, records []Record, opts TableOptions) ([]Result, error) {
	total := len(records)
	results := make([]Result, total)

	nChunks := (total + ProgressInterval - 1) / ProgressInterval
	done := make([]bool, nChunks)

	// Workers write disjoint ranges of results and done.
	completed := make(chan int, nChunks)
	process := func(chunk int) {
		start := chunk * ProgressInterval
		end := start + ProgressInterval
		if end > total {
			end = total
		}
		for i := start; i < end; i++ {
			rec := records[i]
			lifted, ok := l.LiftPair(rec.Chrom1, rec.Pos1, rec.Chrom2, rec.Pos2)
			results[i] = Result{Record: rec, Lifted: lifted, Mappable: ok}
		}
		done[chunk] = true
		completed <- end - start
	}

	threads := opts.Threads
	if threads < 1 {
		threads = 1
	}
	if threads > nChunks {
		threads = nChunks
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for chunk := range jobs {
				process(chunk)
			}
		}()
	}

	// Feed chunks until exhausted or cancelled.
	go func() {
		defer close(jobs)
		for chunk := 0; chunk < nChunks; chunk++ {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case jobs <- chunk:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(completed)
	}()

	processed := 0
	for n := range completed {
		processed += n
		if opts.OnProgress != nil {
			opts.OnProgress(processed, total)
		}
	}
	if total == 0 && opts.OnProgress != nil {
		opts.OnProgress(0, 0)
	}

	// Keep only the prefix of chunks that completed.
	var ctxErr error
	kept := total
	for chunk, ok := range done {
		if !ok {
			kept = chunk * ProgressInterval
			break
		}
	}
	if kept < total {
		ctxErr = ctx.Err()
	}
	results = results[:kept]

	if !opts.DropUnmappable {
		return results, ctxErr
	}

	mappable := results[:0]
	for _, r := range results {
		if r.Mappable {
			mappable = append(mappable, r)
		}
	}

	return mappable, ctxErr
}
