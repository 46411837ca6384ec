package workspace

import (
	"sync"

	events "github.com/docker/go-events"
	"github.com/mugiliam/hatchworkbench/pkg/types"
)

// SnapshotApplied is published once per full reset with the complete view.
type SnapshotApplied struct {
	Objects []types.ObjectDescriptor
}

// ObjectUpdated is published when an object is inserted or replaced.
type ObjectUpdated struct {
	Object types.ObjectDescriptor
}

// ObjectRemoved is published when an object leaves the cache.
type ObjectRemoved struct {
	Name string
}

// ListingFailed is published when a listing request fails. The cache is
// unchanged.
type ListingFailed struct {
	Reason string
}

// Feed fans workspace changes out to display collaborators. It is an
// events.Sink, so it can be handed directly to NewReconciler and NewSyncer.
type Feed struct {
	broadcast *events.Broadcaster
	closeOnce sync.Once
}

func NewFeed() *Feed {
	return &Feed{broadcast: events.NewBroadcaster()}
}

func (f *Feed) Write(ev events.Event) error {
	return f.broadcast.Write(ev)
}

// Close stops the feed. Every subscription channel is closed once its
// pending events have been delivered.
func (f *Feed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		err = f.broadcast.Close()
	})
	return err
}

// Subscribe returns a channel that receives every change published after the
// call, in publication order. Slow subscribers are buffered, never dropped.
// The channel is closed when cancel is called or the feed is closed. cancel
// must be called to release the subscription.
func (f *Feed) Subscribe() (eventq <-chan events.Event, cancel func()) {
	ch := events.NewChannel(0)
	queue := events.NewQueue(ch)
	f.broadcast.Add(queue)

	out := make(chan events.Event)
	stop := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case ev := <-ch.C:
				select {
				case out <- ev:
				case <-stop:
					return
				}
			// the queue closes ch only after its last event was taken
			case <-ch.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			close(stop)
			f.broadcast.Remove(queue)
			ch.Close()
			queue.Close()
		})
	}
}
