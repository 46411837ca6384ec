package workspace

import (
	"context"
	"sync"
	"sync/atomic"

	events "github.com/docker/go-events"
	"github.com/mugiliam/hatchworkbench/internal/apperrors"
	"github.com/mugiliam/hatchworkbench/internal/schemavalidator"
	"github.com/mugiliam/hatchworkbench/pkg/api"
	"github.com/mugiliam/hatchworkbench/pkg/types"
	"github.com/rs/zerolog/log"
)

// Lister returns the interpreter's current workspace listing.
type Lister interface {
	ListObjects(ctx context.Context) ([]types.ObjectDescriptor, error)
}

type SyncMode string

const (
	// SyncReset clears the view and repopulates it in one transition.
	SyncReset SyncMode = "reset"
	// SyncSilent updates the view in place without clearing it.
	SyncSilent SyncMode = "silent"
)

// ParseSyncMode maps a refresh mode name onto a SyncMode. An empty name means
// SyncReset; ok is false for an unknown name.
func ParseSyncMode(s string) (SyncMode, bool) {
	switch SyncMode(s) {
	case SyncReset, "":
		return SyncReset, true
	case SyncSilent:
		return SyncSilent, true
	}
	return "", false
}

// Syncer feeds the Reconciler from listing requests and change events.
//
// Every listing request takes a token from an increasing counter. A response
// is applied only if no newer request was issued while it was in flight;
// superseded responses are dropped.
type Syncer struct {
	lister Lister
	cache  *Reconciler
	sink   events.Sink

	latest  atomic.Uint64
	applyMu sync.Mutex
}

// NewSyncer returns a Syncer that lists through lister into cache and reports
// listing failures to sink. sink may be nil.
func NewSyncer(lister Lister, cache *Reconciler, sink events.Sink) *Syncer {
	return &Syncer{
		lister: lister,
		cache:  cache,
		sink:   sink,
	}
}

// Refresh lists the workspace and reconciles the cache with the result.
// On failure the cache is left as it was, a ListingFailed event is published
// and ErrRemoteListingFailure is returned. ErrStaleListing is returned when a
// newer Refresh was started before this one completed.
func (s *Syncer) Refresh(ctx context.Context, mode SyncMode) apperrors.Error {
	token := s.latest.Add(1)
	descs, err := s.lister.ListObjects(ctx)

	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if token != s.latest.Load() {
		log.Ctx(ctx).Debug().Uint64("token", token).Msg("discarding superseded workspace listing")
		return ErrStaleListing
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list workspace objects")
		if s.sink != nil {
			if werr := s.sink.Write(ListingFailed{Reason: err.Error()}); werr != nil {
				log.Ctx(ctx).Warn().Err(werr).Msg("unable to publish listing failure")
			}
		}
		return ErrRemoteListingFailure.Err(err)
	}

	switch mode {
	case SyncSilent:
		s.cache.ApplySilentSnapshot(ctx, descs)
	default:
		s.cache.ApplySnapshot(ctx, descs)
	}
	return nil
}

// OnActivate brings the view up to date when it becomes visible.
func (s *Syncer) OnActivate(ctx context.Context) apperrors.Error {
	return s.Refresh(ctx, SyncSilent)
}

// HandleEvent applies a change notification. Events must be delivered in the
// order the interpreter produced them.
func (s *Syncer) HandleEvent(ctx context.Context, ev api.WorkspaceEvent) apperrors.Error {
	if ves := schemavalidator.ValidateStruct(&ev); ves != nil {
		return ErrInvalidEvent.Err(ves)
	}
	switch ev.Kind {
	case schemavalidator.EventKindAssign:
		s.cache.ApplyAssign(ctx, *ev.Object)
	case schemavalidator.EventKindRemove:
		s.cache.ApplyRemove(ctx, ev.Name)
	case schemavalidator.EventKindRefresh:
		return s.Refresh(ctx, SyncSilent)
	}
	return nil
}
