package jobs

import (
	"context"
	"log"
	"time"

	"github.com/parleyhq/parley/internal/discovery"
)

// PopularWarmer defines the interface for recomputing popularity listings
type PopularWarmer interface {
	WarmPopular(ctx context.Context, frame discovery.TimeFrame, limit int) error
}

// warmFrames are the time frames kept warm in the cache.
var warmFrames = []discovery.TimeFrame{
	discovery.TimeFrameWeek,
	discovery.TimeFrameMonth,
	discovery.TimeFrameAll,
}

// PopularityWarmer periodically recomputes the popularity listings so the
// cache never serves a cold or expired entry on the request path.
type PopularityWarmer struct {
	warmer   PopularWarmer
	interval time.Duration
	limit    int
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewPopularityWarmer creates a new PopularityWarmer instance
func NewPopularityWarmer(warmer PopularWarmer, interval time.Duration, limit int) *PopularityWarmer {
	if limit <= 0 {
		limit = discovery.DefaultPopularLimit
	}
	return &PopularityWarmer{
		warmer:   warmer,
		interval: interval,
		limit:    limit,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start begins the warming loop. Warms once immediately, then on every tick.
func (w *PopularityWarmer) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log.Printf("Popularity warmer started with interval: %v", w.interval)

	w.warmAll(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Popularity warmer stopped: context cancelled")
			return
		case <-w.stopChan:
			log.Println("Popularity warmer stopped: stop signal received")
			return
		case <-ticker.C:
			w.warmAll(ctx)
		}
	}
}

func (w *PopularityWarmer) warmAll(ctx context.Context) {
	for _, frame := range warmFrames {
		if err := w.warmer.WarmPopular(ctx, frame, w.limit); err != nil {
			log.Printf("Error warming popular listing (%s): %v", frame, err)
		}
	}
}

// Stop gracefully stops the warmer
func (w *PopularityWarmer) Stop() {
	close(w.stopChan)
	<-w.doneChan
	log.Println("Popularity warmer shutdown complete")
}
