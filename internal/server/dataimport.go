package server

import (
	"net/http"

	"github.com/mugiliam/hatchworkbench/internal/dataimport"
	"github.com/mugiliam/hatchworkbench/internal/httpx"
	"github.com/mugiliam/hatchworkbench/internal/schemavalidator"
	"github.com/mugiliam/hatchworkbench/pkg/api"
	"github.com/mugiliam/hatchworkbench/pkg/types"
	"github.com/rs/zerolog/log"
)

func (s *HatchWorkbenchServer) importCommand(r *http.Request) (*httpx.Response, error) {
	req := types.ImportRequest{}
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	return s.runImport(r, req, false)
}

func (s *HatchWorkbenchServer) importExecute(r *http.Request) (*httpx.Response, error) {
	req := types.ImportRequest{}
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	return s.runImport(r, req, true)
}

// importFromURL has the session download the file first and then imports the
// local copy. Without an explicit varname the session's suggestion is used.
func (s *HatchWorkbenchServer) importFromURL(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	req := api.ImportFromURLReq{}
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if ves := schemavalidator.ValidateStruct(&req); ves != nil {
		return nil, ErrInvalidURLRequest.Err(ves)
	}
	if s.deps.Downloader == nil {
		return nil, ErrDownload.Msg("no downloader configured")
	}
	info, err := s.deps.Downloader.DownloadDataFile(ctx, req.URL)
	if err != nil {
		return nil, ErrDownload.Err(err)
	}
	log.Ctx(ctx).Info().Str("url", req.URL).Str("path", info.Path).Msg("downloaded data file")

	varname := info.Varname
	if !req.Varname.IsNil() {
		varname = req.Varname.Value
	}
	return s.runImport(r, types.ImportRequest{
		FormatProfile: req.FormatProfile,
		File:          info.Path,
		Varname:       varname,
	}, req.Execute)
}

func (s *HatchWorkbenchServer) runImport(r *http.Request, req types.ImportRequest, execute bool) (*httpx.Response, error) {
	cmd, err := s.deps.Synthesizer.ImportCode(r.Context(), req)
	if err != nil {
		return nil, err
	}
	if execute {
		if err := s.execute(r, cmd.Code); err != nil {
			return nil, err
		}
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   importCommandRsp(cmd, execute),
	}, nil
}

func importCommandRsp(cmd *dataimport.ImportCommand, executed bool) *api.ImportCommandRsp {
	return &api.ImportCommandRsp{
		Baseline: cmd.Baseline,
		Varname:  cmd.Varname,
		Code:     cmd.Code,
		Executed: executed,
	}
}
