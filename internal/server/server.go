package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/mugiliam/hatchworkbench/internal/config"
	"github.com/mugiliam/hatchworkbench/internal/console"
	"github.com/mugiliam/hatchworkbench/internal/dataimport"
	"github.com/mugiliam/hatchworkbench/internal/httpx"
	"github.com/mugiliam/hatchworkbench/internal/logtrace"
	"github.com/mugiliam/hatchworkbench/internal/server/middleware"
	"github.com/mugiliam/hatchworkbench/internal/workspace"
	"github.com/mugiliam/hatchworkbench/pkg/api"
	"github.com/rs/zerolog/log"
)

// Downloader fetches a remote data file into the session.
type Downloader interface {
	DownloadDataFile(ctx context.Context, url string) (*api.DownloadInfo, error)
}

// WorkspaceManager clears, saves and loads the whole workspace.
type WorkspaceManager interface {
	RemoveAllObjects(ctx context.Context) error
	SaveWorkspace(ctx context.Context, path string) error
	LoadWorkspace(ctx context.Context, path string) error
}

type SpreadsheetImporter interface {
	ImportGoogleSpreadsheet(ctx context.Context, spec api.GoogleSpreadsheetImportSpec) error
}

type Deps struct {
	Cache       *workspace.Reconciler
	Syncer      *workspace.Syncer
	Feed        *workspace.Feed
	Synthesizer *dataimport.Synthesizer
	Console     console.Sink
	Downloader  Downloader

	Workspace    WorkspaceManager
	Spreadsheets SpreadsheetImporter
}

type HatchWorkbenchServer struct {
	Router *chi.Mux
	deps   Deps

	// path of the workspace file last saved or loaded
	mu       sync.Mutex
	lastFile string
}

func CreateNewServer(deps Deps) (*HatchWorkbenchServer, error) {
	if deps.Cache == nil || deps.Syncer == nil || deps.Synthesizer == nil || deps.Console == nil {
		return nil, errors.New("server requires a cache, a syncer, a synthesizer and a console")
	}
	s := &HatchWorkbenchServer{deps: deps}
	s.Router = chi.NewRouter()
	return s, nil
}

type handlerParam struct {
	Method  string
	Path    string
	Handler httpx.HandlerFunc
}

func (s *HatchWorkbenchServer) workspaceHandlers() []handlerParam {
	return []handlerParam{
		{Method: http.MethodGet, Path: "/objects", Handler: s.listObjects},
		{Method: http.MethodPost, Path: "/refresh", Handler: s.refresh},
		{Method: http.MethodPost, Path: "/events", Handler: s.deliverEvent},
		{Method: http.MethodPost, Path: "/objects/{name}/{action}", Handler: s.objectAction},
		{Method: http.MethodPost, Path: "/clear", Handler: s.clearWorkspace},
		{Method: http.MethodPost, Path: "/save", Handler: s.saveWorkspace},
		{Method: http.MethodPost, Path: "/load", Handler: s.loadWorkspace},
	}
}

func (s *HatchWorkbenchServer) dataImportHandlers() []handlerParam {
	return []handlerParam{
		{Method: http.MethodPost, Path: "/command", Handler: s.importCommand},
		{Method: http.MethodPost, Path: "/execute", Handler: s.importExecute},
		{Method: http.MethodPost, Path: "/url", Handler: s.importFromURL},
		{Method: http.MethodPost, Path: "/googlesheet", Handler: s.importGoogleSpreadsheet},
	}
}

func (s *HatchWorkbenchServer) MountHandlers() {
	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(middleware.LoadContext)
	if config.Config().HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.Router.Get("/version", s.getVersion)
	s.Router.Route("/workspace", func(r chi.Router) {
		for _, h := range s.workspaceHandlers() {
			r.Method(h.Method, h.Path, httpx.WrapHttpRsp(h.Handler))
		}
		if s.deps.Feed != nil {
			r.Get("/feed", s.streamFeed)
		}
	})
	s.Router.Route("/dataimport", func(r chi.Router) {
		for _, h := range s.dataImportHandlers() {
			r.Method(h.Method, h.Path, httpx.WrapHttpRsp(h.Handler))
		}
	})
	if logtrace.IsTraceEnabled() {
		fmt.Println("Routes in workbench router")
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			fmt.Printf("%s %s\n", method, route)
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			fmt.Printf("Logging err: %s\n", err.Error())
		}
	}
}

func (s *HatchWorkbenchServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &api.GetVersionRsp{
		ServerVersion: api.ServerVersion,
		ApiVersion:    api.ApiVersion_1_0,
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

func (s *HatchWorkbenchServer) HandleCORS(next http.Handler) http.Handler {
	origin := config.Config().CORSOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, "+middleware.ClientIdHeader+", "+middleware.RequestIDHeader)

		if r.Method == http.MethodOptions {
			log.Ctx(r.Context()).Debug().Msg("OPTIONS request")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
