package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	events "github.com/docker/go-events"
	"github.com/go-chi/chi/v5"
	"github.com/mugiliam/hatchworkbench/internal/apperrors"
	"github.com/mugiliam/hatchworkbench/internal/console"
	"github.com/mugiliam/hatchworkbench/internal/httpx"
	"github.com/mugiliam/hatchworkbench/internal/workspace"
	"github.com/mugiliam/hatchworkbench/pkg/api"
	"github.com/rs/zerolog/log"
)

func decodeBody(r *http.Request, v any) apperrors.Error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrInvalidRequestBody.Msg("empty request body")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return ErrInvalidRequestBody.Err(err)
	}
	return nil
}

func (s *HatchWorkbenchServer) listObjects(r *http.Request) (*httpx.Response, error) {
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   &api.ListObjectsRsp{Objects: s.deps.Cache.Objects()},
	}, nil
}

func (s *HatchWorkbenchServer) refresh(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	mode, ok := workspace.ParseSyncMode(r.URL.Query().Get("mode"))
	if !ok {
		return nil, ErrUnsupportedRefreshMode.Msg("unsupported refresh mode " + r.URL.Query().Get("mode"))
	}
	if err := s.deps.Syncer.Refresh(ctx, mode); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   &api.RefreshRsp{Mode: string(mode), Objects: s.deps.Cache.Len()},
	}, nil
}

func (s *HatchWorkbenchServer) deliverEvent(r *http.Request) (*httpx.Response, error) {
	ev := api.WorkspaceEvent{}
	if err := decodeBody(r, &ev); err != nil {
		return nil, err
	}
	if err := s.deps.Syncer.HandleEvent(r.Context(), ev); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *HatchWorkbenchServer) objectAction(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		return nil, ErrInvalidObjectName
	}
	action := console.ObjectAction(chi.URLParam(r, "action"))
	code, ok := console.ObjectCommand(action, name)
	if !ok {
		return nil, ErrUnknownObjectAction.Msg("unknown object action " + string(action))
	}
	if err := s.execute(r, code); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().Str("object", name).Str("action", string(action)).Msg("object command sent")
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   &api.ObjectActionRsp{Code: code},
	}, nil
}

func (s *HatchWorkbenchServer) execute(r *http.Request, code string) apperrors.Error {
	if err := s.deps.Console.Execute(r.Context(), code); err != nil {
		return ErrConsoleExecution.Err(err)
	}
	return nil
}

// streamFeed sends the current view followed by every change as server sent
// events until the client goes away.
func (s *HatchWorkbenchServer) streamFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.ToHttpxError(ErrStreamingUnsupported).Send(w)
		return
	}
	// subscribe before reading the view so no change falls in between
	eventq, cancel := s.deps.Feed.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeFeedEvent(w, &api.FeedEvent{Type: api.FeedEventSnapshot, Objects: s.deps.Cache.Objects()}); err != nil {
		return
	}
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-eventq:
			if !ok {
				return
			}
			fe, ok := toFeedEvent(ev)
			if !ok {
				log.Ctx(ctx).Warn().Str("event", fmt.Sprintf("%T", ev)).Msg("dropping unknown feed event")
				continue
			}
			if err := writeFeedEvent(w, fe); err != nil {
				log.Ctx(ctx).Debug().Err(err).Msg("feed client went away")
				return
			}
			flusher.Flush()
		}
	}
}

func toFeedEvent(ev events.Event) (*api.FeedEvent, bool) {
	switch e := ev.(type) {
	case workspace.SnapshotApplied:
		return &api.FeedEvent{Type: api.FeedEventSnapshot, Objects: e.Objects}, true
	case workspace.ObjectUpdated:
		return &api.FeedEvent{Type: api.FeedEventUpdated, Object: &e.Object}, true
	case workspace.ObjectRemoved:
		return &api.FeedEvent{Type: api.FeedEventRemoved, Name: e.Name}, true
	case workspace.ListingFailed:
		return &api.FeedEvent{Type: api.FeedEventListingFailed, Reason: e.Reason}, true
	}
	return nil, false
}

func writeFeedEvent(w http.ResponseWriter, fe *api.FeedEvent) error {
	data, err := json.Marshal(fe)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", fe.Type, data)
	return err
}
