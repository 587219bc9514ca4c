package scraper

import (
	"context"
	"iter"
	"sync"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/utils"
)

const DefaultPoolSize = 15

// WorkerPool runs a fixed number of workers over a venue sequence.
// Outcomes come back in completion order, not input order.
type WorkerPool struct {
	worker *Worker
	size   int
}

func NewWorkerPool(worker *Worker, size int) *WorkerPool {
	if size < 1 {
		size = DefaultPoolSize
	}
	return &WorkerPool{worker: worker, size: size}
}

// Run returns once every venue has been processed and every worker has exited.
// A pool may serve several Run calls at once.
func (p *WorkerPool) Run(ctx context.Context, venues iter.Seq[models.VenueRecord]) []models.Outcome {
	jobs := make(chan models.VenueRecord, p.size)
	results := make(chan models.Outcome, p.size)

	var wg sync.WaitGroup
	wg.Add(p.size)
	for i := 1; i <= p.size; i++ {
		go p.run(ctx, &wg, jobs, results)
	}

	go func() {
		defer close(jobs)
		for venue := range venues {
			jobs <- venue
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return p.collect(results)
}

func (p *WorkerPool) run(ctx context.Context, wg *sync.WaitGroup, jobs <-chan models.VenueRecord, results chan<- models.Outcome) {
	defer wg.Done()

	for venue := range jobs {
		results <- p.worker.Process(ctx, venue)
	}
}

func (p *WorkerPool) collect(results <-chan models.Outcome) []models.Outcome {
	var all []models.Outcome
	counts := make(map[models.Status]int)

	for out := range results {
		counts[out.Status]++
		all = append(all, out)
	}

	utils.Success("Venues scanned: %d | Available: %d | Failed: %d | Blocked: %d",
		len(all), counts[models.StatusAvailable], counts[models.StatusFailed], counts[models.StatusBlocked])
	return all
}
