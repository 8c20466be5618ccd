package attachments

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Reaper periodically deletes attachments that were uploaded but never
// linked to a wave within the retention window. It owns its own lifecycle:
// started once on process init, stopped on shutdown, and never touched by
// request handlers.
type Reaper struct {
	repo      Repository
	store     BlobStore
	period    time.Duration
	retention time.Duration
	stop      chan struct{}
	done      chan struct{}

	sweptTotal    prometheus.Counter
	failuresTotal prometheus.Counter
}

// NewReaper creates a reaper sweeping every period for unlinked attachments
// older than retention. The two durations are independent knobs; they happen
// to share a one-hour default. Metrics are registered when reg is non-nil.
func NewReaper(repo Repository, store BlobStore, period, retention time.Duration, reg prometheus.Registerer) *Reaper {
	r := &Reaper{
		repo:      repo,
		store:     store,
		period:    period,
		retention: retention,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		sweptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waver_attachments_reaped_total",
			Help: "Orphaned attachment records removed by the reaper.",
		}),
		failuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "waver_attachment_reaper_failures_total",
			Help: "Per-attachment cleanup failures during reaper sweeps.",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.sweptTotal, r.failuresTotal)
	}
	return r
}

// Start runs the sweep loop in a background goroutine until Stop is called
// or ctx is cancelled.
func (r *Reaper) Start(ctx context.Context) {
	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.period)
		defer ticker.Stop()

		log.Printf("Attachment reaper started: period=%s retention=%s", r.period, r.retention)

		for {
			select {
			case <-ticker.C:
				r.Sweep(ctx)
			case <-r.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts scheduling of further sweeps and waits for the loop to exit.
// In-flight store calls complete normally.
func (r *Reaper) Stop() {
	close(r.stop)
	<-r.done
}

// Sweep performs a single cleanup pass. Idempotent: candidates that vanish
// between selection and deletion are skipped, and one attachment's failure
// never aborts the rest of the pass.
func (r *Reaper) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.retention)

	orphans, err := r.repo.ListOrphanedBefore(ctx, cutoff)
	if err != nil {
		log.Printf("Reaper: failed to list orphaned attachments: %v", err)
		r.failuresTotal.Inc()
		return
	}

	for _, orphan := range orphans {
		// Bytes go first: a crash here leaves a record pointing at
		// deleted bytes, which the next sweep retries safely. Byte
		// deletion failures are best-effort and must not keep the
		// record alive past retention.
		if err := r.store.Remove(ctx, orphan.StorageKey); err != nil {
			log.Printf("Reaper: failed to remove bytes for attachment %d (key %s): %v",
				orphan.ID, orphan.StorageKey, err)
			r.failuresTotal.Inc()
		}

		// The unlinked filter is re-checked at delete time so a claim
		// that raced the sweep keeps its record.
		deleted, err := r.repo.DeleteIfUnlinked(ctx, orphan.ID)
		if err != nil {
			log.Printf("Reaper: failed to delete attachment record %d: %v", orphan.ID, err)
			r.failuresTotal.Inc()
			continue
		}
		if deleted {
			r.sweptTotal.Inc()
		}
	}
}
