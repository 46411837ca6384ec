package server

import (
	"net/http"

	"github.com/mugiliam/hatchworkbench/internal/console"
	"github.com/mugiliam/hatchworkbench/internal/httpx"
	"github.com/mugiliam/hatchworkbench/internal/schemavalidator"
	"github.com/mugiliam/hatchworkbench/internal/workspace"
	"github.com/mugiliam/hatchworkbench/pkg/api"
	"github.com/rs/zerolog/log"
)

func (s *HatchWorkbenchServer) clearWorkspace(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	if s.deps.Workspace == nil {
		return nil, ErrNotSupported.Msg("clearing the workspace is not supported")
	}
	if err := s.deps.Workspace.RemoveAllObjects(ctx); err != nil {
		return nil, ErrWorkspaceOperation.Err(err)
	}
	log.Ctx(ctx).Info().Msg("workspace cleared")
	s.resync(r)
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   &api.ClearWorkspaceRsp{Objects: s.deps.Cache.Len()},
	}, nil
}

// saveWorkspace writes the workspace to the requested file, or to the file
// last saved or loaded when none is given. The file always carries the data
// file extension.
func (s *HatchWorkbenchServer) saveWorkspace(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	if s.deps.Workspace == nil {
		return nil, ErrNotSupported.Msg("saving the workspace is not supported")
	}
	path, err := s.workspaceFile(r)
	if err != nil {
		return nil, err
	}
	path = workspace.DataFileName(path)
	if err := s.deps.Workspace.SaveWorkspace(ctx, path); err != nil {
		return nil, ErrWorkspaceOperation.Err(err)
	}
	s.setLastFile(path)
	log.Ctx(ctx).Info().Str("path", path).Msg("workspace saved")
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   &api.WorkspaceFileRsp{Path: path, Objects: s.deps.Cache.Len()},
	}, nil
}

// loadWorkspace opens a saved workspace or any data file the session can
// load. The file name is passed through as given.
func (s *HatchWorkbenchServer) loadWorkspace(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	if s.deps.Workspace == nil {
		return nil, ErrNotSupported.Msg("loading a workspace is not supported")
	}
	path, err := s.workspaceFile(r)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Workspace.LoadWorkspace(ctx, path); err != nil {
		return nil, ErrWorkspaceOperation.Err(err)
	}
	s.setLastFile(path)
	log.Ctx(ctx).Info().Str("path", path).Msg("workspace loaded")
	s.resync(r)
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   &api.WorkspaceFileRsp{Path: path, Objects: s.deps.Cache.Len()},
	}, nil
}

// importGoogleSpreadsheet imports the spreadsheet in the session and then
// opens the new object in the viewer.
func (s *HatchWorkbenchServer) importGoogleSpreadsheet(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	spec := api.GoogleSpreadsheetImportSpec{}
	if err := decodeBody(r, &spec); err != nil {
		return nil, err
	}
	if ves := schemavalidator.ValidateStruct(&spec); ves != nil {
		return nil, ErrInvalidSpreadsheetSpec.Err(ves)
	}
	if s.deps.Spreadsheets == nil {
		return nil, ErrNotSupported.Msg("spreadsheet import is not supported")
	}
	if err := s.deps.Spreadsheets.ImportGoogleSpreadsheet(ctx, spec); err != nil {
		return nil, ErrWorkspaceOperation.Err(err)
	}
	code := console.ViewObjectCommand(spec.ObjectName)
	if err := s.execute(r, code); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("object", spec.ObjectName).Msg("spreadsheet imported")
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   &api.ObjectActionRsp{Code: code},
	}, nil
}

func (s *HatchWorkbenchServer) workspaceFile(r *http.Request) (string, error) {
	req := api.WorkspaceFileReq{}
	if r.Body != nil && r.Body != http.NoBody {
		if err := decodeBody(r, &req); err != nil {
			return "", err
		}
	}
	if req.Path != "" {
		return req.Path, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastFile == "" {
		return "", ErrMissingWorkspaceFile
	}
	return s.lastFile, nil
}

func (s *HatchWorkbenchServer) setLastFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFile = path
}

// resync brings the view in line after the session replaced the workspace
// wholesale. A failed listing is already reported on the feed.
func (s *HatchWorkbenchServer) resync(r *http.Request) {
	if err := s.deps.Syncer.Refresh(r.Context(), workspace.SyncReset); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("workspace listing after change failed")
	}
}
