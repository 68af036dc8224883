package service

import (
	"context"
	"log"
	"time"
)

// OrphanScanWorker periodically sweeps the draft prefix for untracked
// objects. One worker per process is enough; scans are idempotent, so
// overlapping workers across replicas only waste list calls.
type OrphanScanWorker struct {
	drafts   DraftService
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewOrphanScanWorker creates a worker scanning every interval.
func NewOrphanScanWorker(drafts DraftService, interval time.Duration) *OrphanScanWorker {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &OrphanScanWorker{
		drafts:   drafts,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the scan loop in a goroutine. The first scan runs after one
// full interval, not at startup, so a crash-looping process cannot hammer
// the store with listings.
func (w *OrphanScanWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		log.Printf("OrphanScanWorker.Start: scanning every %s", w.interval)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			case <-ticker.C:
				w.scan(ctx)
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the in-flight scan to finish.
func (w *OrphanScanWorker) Stop() {
	close(w.stop)
	<-w.done
}

func (w *OrphanScanWorker) scan(ctx context.Context) {
	start := time.Now()
	removed, err := w.drafts.CleanupOrphans(ctx)
	if err != nil {
		log.Printf("OrphanScanWorker.scan: %v", err)
		return
	}
	log.Printf("OrphanScanWorker.scan: removed %d objects in %s", removed, time.Since(start).Round(time.Millisecond))
}
