package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/flocknet/social-api/internal/api/metrics"
	"github.com/flocknet/social-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
	deleteTimeout  = 10 * time.Second
)

// MediaCleaner runs best-effort media deletions on a fixed set of workers,
// sharded by URL so repeated enqueues of the same object land on the same
// worker. Deletion failures are logged and counted, never retried and never
// surfaced to the request that enqueued them; orphaned objects are the
// accepted cost of keeping post deletion unblocked.
type MediaCleaner struct {
	workers []chan string
	store   ports.MediaStore
	log     zerolog.Logger
}

// NewMediaCleaner creates a MediaCleaner with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMediaCleaner(numWorkers int, store ports.MediaStore, log zerolog.Logger) *MediaCleaner {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	c := &MediaCleaner{
		workers: make([]chan string, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range c.workers {
		c.workers[i] = make(chan string, channelBuffer)
	}
	return c
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// queued deletions still pending at shutdown are dropped.
func (c *MediaCleaner) Start(ctx context.Context) {
	for i, ch := range c.workers {
		go c.runWorker(ctx, i, ch)
	}
}

// Enqueue submits a URL for deletion. Never blocks the caller: when the
// shard is full the URL is dropped with a warning.
func (c *MediaCleaner) Enqueue(url string) {
	select {
	case c.workers[c.shardIndex(url)] <- url:
	default:
		c.log.Warn().Str("url", url).Msg("media cleanup queue full, dropping")
	}
}

func (c *MediaCleaner) shardIndex(url string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(url))
	return int(h.Sum32()) % len(c.workers)
}

func (c *MediaCleaner) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case url, ok := <-ch:
			if !ok {
				return
			}
			c.delete(ctx, id, url)
		}
	}
}

func (c *MediaCleaner) delete(ctx context.Context, workerID int, url string) {
	deleteCtx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	if err := c.store.Delete(deleteCtx, url); err != nil {
		metrics.MediaCleanupTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).
			Str("url", url).
			Int("worker_id", workerID).
			Msg("media object deletion failed, object orphaned")
		return
	}
	metrics.MediaCleanupTotal.WithLabelValues("ok").Inc()
}
