package services

import (
	"context"
	"sync"
	"time"

	"gorent/internal/repositories/interfaces"
	"gorent/pkg/logger"
)

const sweepTimeout = 30 * time.Second

// JanitorService reclaims bookings that were approved but never paid within
// the grace window. The renter is not notified and the vehicle flag is not
// touched: the flag only flips on successful payment, which never happened.
type JanitorService struct {
	bookingRepo interfaces.BookingRepository
	interval    time.Duration
	grace       time.Duration
	now         func() time.Time
	log         *logger.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	stop      chan struct{}
	done      chan struct{}
}

func NewJanitorService(
	bookingRepo interfaces.BookingRepository,
	interval, grace time.Duration,
	log *logger.Logger,
) *JanitorService {
	return &JanitorService{
		bookingRepo: bookingRepo,
		interval:    interval,
		grace:       grace,
		now:         time.Now,
		log:         log,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// SetClock overrides the time source, for tests.
func (j *JanitorService) SetClock(now func() time.Time) {
	j.now = now
}

// Start launches the sweep loop. Sweep failures are logged and swallowed;
// the background task must never take the process down, and the next tick
// retries unconditionally.
func (j *JanitorService) Start() {
	j.startOnce.Do(func() {
		j.started = true

		go func() {
			defer close(j.done)

			ticker := time.NewTicker(j.interval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
					if _, err := j.Sweep(ctx); err != nil {
						j.log.WithError(err).Error("janitor sweep failed")
					}
					cancel()

				case <-j.stop:
					return
				}
			}
		}()
	})
}

// Stop halts the loop and waits for an in-flight sweep to finish. Safe to
// call without a prior Start and safe to call twice.
func (j *JanitorService) Stop() {
	j.stopOnce.Do(func() {
		close(j.stop)
	})
	if j.started {
		<-j.done
	}
}

// Sweep deletes every approved booking whose payment is still pending past
// the grace window. Safe to call concurrently with itself: deletion is
// idempotent and the filter only ever matches reclaimable rows.
func (j *JanitorService) Sweep(ctx context.Context) (int64, error) {
	cutoff := j.now().Add(-j.grace)

	deleted, err := j.bookingRepo.DeleteStaleUnpaid(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		j.log.WithField("count", deleted).Info("reclaimed unpaid approved bookings")
	}

	return deleted, nil
}
