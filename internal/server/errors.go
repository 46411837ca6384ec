package server

import (
	"net/http"

	"github.com/mugiliam/hatchworkbench/internal/apperrors"
)

var (
	ErrRequest                apperrors.Error = apperrors.New("error in request")
	ErrInvalidRequestBody     apperrors.Error = ErrRequest.New("unable to decode request body").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrUnsupportedRefreshMode apperrors.Error = ErrRequest.New("unsupported refresh mode").SetStatusCode(http.StatusBadRequest)
	ErrUnknownObjectAction    apperrors.Error = ErrRequest.New("unknown object action").SetStatusCode(http.StatusNotFound)
	ErrInvalidObjectName      apperrors.Error = ErrRequest.New("invalid object name").SetStatusCode(http.StatusBadRequest)
	ErrInvalidURLRequest      apperrors.Error = ErrRequest.New("invalid import from url request").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrConsoleExecution       apperrors.Error = ErrRequest.New("unable to run command in console").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
	ErrDownload               apperrors.Error = ErrRequest.New("unable to download data file").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
	ErrNotSupported           apperrors.Error = ErrRequest.New("operation is not supported").SetStatusCode(http.StatusNotImplemented)
	ErrMissingWorkspaceFile   apperrors.Error = ErrRequest.New("no workspace file given").SetStatusCode(http.StatusBadRequest)
	ErrWorkspaceOperation     apperrors.Error = ErrRequest.New("workspace operation failed").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
	ErrInvalidSpreadsheetSpec apperrors.Error = ErrRequest.New("invalid spreadsheet import request").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrStreamingUnsupported   apperrors.Error = ErrRequest.New("streaming is not supported").SetStatusCode(http.StatusInternalServerError)
)
