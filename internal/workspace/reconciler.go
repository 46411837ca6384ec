// Package workspace keeps a local view of the interpreter's workspace in step
// with the interpreter. The Reconciler owns the cache; the Syncer drives it
// from listing requests and change notifications.
package workspace

import (
	"context"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	events "github.com/docker/go-events"
	"github.com/mugiliam/hatchworkbench/pkg/types"
	"github.com/rs/zerolog/log"
)

// Reconciler is the cache of visible workspace objects, keyed by name. The
// cache keeps the order in which names were first seen so a display can stay
// stable across updates.
//
// All methods are safe for concurrent use; each mutation runs under one lock
// and is published to the sink before the lock is released, so no reader or
// subscriber ever sees a half-applied snapshot.
type Reconciler struct {
	mu      sync.RWMutex
	objects map[string]types.ObjectDescriptor
	order   []string
	sink    events.Sink
}

// NewReconciler returns an empty cache that reports its transitions to sink.
// sink may be nil.
func NewReconciler(sink events.Sink) *Reconciler {
	return &Reconciler{
		objects: make(map[string]types.ObjectDescriptor),
		sink:    sink,
	}
}

// ApplySnapshot replaces the cache with the visible descriptors in descs.
// Subscribers see a single SnapshotApplied event.
func (r *Reconciler) ApplySnapshot(ctx context.Context, descs []types.ObjectDescriptor) {
	objects := make(map[string]types.ObjectDescriptor, len(descs))
	order := make([]string, 0, len(descs))
	for _, d := range descs {
		if d.Hidden {
			continue
		}
		if _, ok := objects[d.Name]; !ok {
			order = append(order, d.Name)
		}
		objects[d.Name] = d
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects = objects
	r.order = order
	r.publish(ctx, SnapshotApplied{Objects: r.objectsLocked()})
	log.Ctx(ctx).Debug().Int("objects", len(order)).Msg("applied workspace snapshot")
}

// ApplySilentSnapshot brings the cache to the same state ApplySnapshot would,
// without ever clearing it: names missing from descs are removed one by one
// and every visible descriptor is upserted.
func (r *Reconciler) ApplySilentSnapshot(ctx context.Context, descs []types.ObjectDescriptor) {
	incoming := mapset.NewThreadUnsafeSet[string]()
	for _, d := range descs {
		if !d.Hidden {
			incoming.Add(d.Name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// computed against the cache as it was before this sync
	removed := mapset.NewThreadUnsafeSet[string](r.order...).Difference(incoming)
	if removed.Cardinality() > 0 {
		kept := r.order[:0]
		for _, name := range r.order {
			if removed.Contains(name) {
				delete(r.objects, name)
				r.publish(ctx, ObjectRemoved{Name: name})
				continue
			}
			kept = append(kept, name)
		}
		r.order = kept
	}

	for _, d := range descs {
		if !d.Hidden {
			r.upsertLocked(ctx, d)
		}
	}
	log.Ctx(ctx).Debug().Int("removed", removed.Cardinality()).Int("objects", len(r.order)).Msg("synchronized workspace")
}

// ApplyAssign records a single assignment. A hidden descriptor is never
// cached; if its name is cached from an earlier visible assignment, the entry
// is dropped.
func (r *Reconciler) ApplyAssign(ctx context.Context, d types.ObjectDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.Hidden {
		r.removeLocked(ctx, d.Name)
		return
	}
	r.upsertLocked(ctx, d)
}

// ApplyRemove drops name from the cache. Removing a name that is not cached
// is a no-op.
func (r *Reconciler) ApplyRemove(ctx context.Context, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(ctx, name)
}

// CurrentNames returns a copy of the cached names.
func (r *Reconciler) CurrentNames() mapset.Set[string] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return mapset.NewSet[string](r.order...)
}

// Objects returns the cached descriptors in display order.
func (r *Reconciler) Objects() []types.ObjectDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.objectsLocked()
}

// Lookup returns the cached descriptor of the named visible object.
func (r *Reconciler) Lookup(name string) (types.ObjectDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.objects[name]
	return d, ok
}

// Len returns the number of visible objects in the cache.
func (r *Reconciler) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Reconciler) objectsLocked() []types.ObjectDescriptor {
	objs := make([]types.ObjectDescriptor, 0, len(r.order))
	for _, name := range r.order {
		objs = append(objs, r.objects[name])
	}
	return objs
}

func (r *Reconciler) upsertLocked(ctx context.Context, d types.ObjectDescriptor) {
	if _, ok := r.objects[d.Name]; !ok {
		r.order = append(r.order, d.Name)
	}
	r.objects[d.Name] = d
	r.publish(ctx, ObjectUpdated{Object: d})
}

func (r *Reconciler) removeLocked(ctx context.Context, name string) {
	if _, ok := r.objects[name]; !ok {
		return
	}
	delete(r.objects, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.publish(ctx, ObjectRemoved{Name: name})
}

func (r *Reconciler) publish(ctx context.Context, ev events.Event) {
	if r.sink == nil {
		return
	}
	if err := r.sink.Write(ev); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("unable to publish workspace change")
	}
}
