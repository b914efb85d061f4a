// Package feed provides live complaint queries: a Subscription re-runs its
// query whenever the complaints collection changes and delivers the full
// updated snapshot, until the handle is closed. Callers own at most one
// open subscription per logical feed and must close the old one before
// opening a new one.
package feed

import (
	"context"
	"log"
	"sort"
	"sync"

	"railcrm/backend/internal/models"
)

// QueryFunc re-reads the current matching complaint set from the store.
type QueryFunc func() ([]models.Complaint, error)

// EventSource delivers change notifications for the complaints collection.
// The returned channel fires (or closes) when the underlying data may have
// changed; the detach func releases the watch.
type EventSource interface {
	Subscribe(ctx context.Context) (events <-chan struct{}, detach func(), err error)
}

// Subscription is a live query handle. Updates carries the complete,
// newest-first result set after every change, starting with an immediate
// initial snapshot. The channel is closed when the subscription ends.
type Subscription struct {
	Updates chan []models.Complaint

	stop     chan struct{}
	stopOnce sync.Once
	detach   func()
}

// Open attaches to the event source, emits the initial snapshot, and starts
// delivering an updated snapshot on every change event. The caller must
// Close the subscription to release the watch.
func Open(ctx context.Context, source EventSource, query QueryFunc) (*Subscription, error) {
	events, detach, err := source.Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	initial, err := query()
	if err != nil {
		detach()
		return nil, err
	}

	sub := &Subscription{
		Updates: make(chan []models.Complaint, 1),
		stop:    make(chan struct{}),
		detach:  detach,
	}

	go func() {
		defer close(sub.Updates)
		sub.deliver(initial)

		for {
			select {
			case <-sub.stop:
				return
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				items, err := query()
				if err != nil {
					log.Printf("ERROR: Feed re-query failed: %v", err)
					continue
				}
				sub.deliver(items)
			}
		}
	}()

	return sub, nil
}

// Close detaches from the event source and stops delivery. Safe to call
// more than once.
func (s *Subscription) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.detach()
	})
}

// deliver pushes a snapshot to the consumer. A pending stale snapshot is
// replaced rather than queued, so a slow consumer only ever misses
// intermediate states, never the latest one.
func (s *Subscription) deliver(items []models.Complaint) {
	SortNewestFirst(items)
	for {
		select {
		case <-s.stop:
			return
		case s.Updates <- items:
			return
		default:
		}

		// Buffer full: drop the stale snapshot and retry.
		select {
		case <-s.Updates:
		default:
		}
	}
}

// SortNewestFirst orders complaints by timestamp descending. The sort is
// stable so that equal timestamps keep their store order.
func SortNewestFirst(items []models.Complaint) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})
}
