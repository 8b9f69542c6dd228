package feed

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nouvelles/nouvelles/app/config"
)

// Hub owns the current merged snapshot and drives aggregation cycles. A
// periodic cycle runs at the configured interval but is skipped while another
// cycle is in flight; a manual refresh is always honored.
type Hub struct {
	aggregator *Aggregator
	feeds      []config.Feed
	interval   time.Duration

	mu       sync.RWMutex
	snapshot Snapshot

	inFlight atomic.Bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewHub(aggregator *Aggregator, feeds []config.Feed, interval time.Duration) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		aggregator: aggregator,
		feeds:      feeds,
		interval:   interval,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start runs an initial cycle and then refreshes on the configured interval
// until Stop is called.
func (h *Hub) Start() {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		h.Refresh(true)

		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			select {
			case <-h.ctx.Done():
				return
			case <-ticker.C:
				if !h.Refresh(false) {
					slog.Debug("Automatic refresh skipped, cycle already in flight")
				}
			}
		}
	}()
}

// Stop cancels the periodic loop. Results from cycles still in flight are
// discarded rather than applied.
func (h *Hub) Stop() {
	h.cancel()
	h.wg.Wait()
}

// Refresh runs one aggregation cycle and atomically replaces the snapshot.
// Automatic refreshes yield to an in-flight cycle and report false; manual
// refreshes always run. Per-feed statuses are cleared before the new round so
// stale results never outlive the cycle that produced them.
func (h *Hub) Refresh(manual bool) bool {
	if !h.inFlight.CompareAndSwap(false, true) {
		if !manual {
			return false
		}
		h.runCycle()
		return true
	}
	defer h.inFlight.Store(false)

	h.runCycle()
	return true
}

func (h *Hub) runCycle() {
	h.mu.Lock()
	h.snapshot.Statuses = nil
	h.mu.Unlock()

	snapshot := h.aggregator.Run(h.ctx, h.feeds)

	select {
	case <-h.ctx.Done():
		slog.Debug("Hub stopped, discarding cycle result")
		return
	default:
	}

	h.mu.Lock()
	h.snapshot = snapshot
	h.mu.Unlock()
}

// Snapshot returns the most recent completed cycle's result.
func (h *Hub) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot
}

// Article looks up one article from the current snapshot by its ID.
func (h *Hub) Article(id string) (Article, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, article := range h.snapshot.Articles {
		if article.ID == id {
			return article, true
		}
	}
	return Article{}, false
}
