package dataimport

import (
	"net/http"

	"github.com/mugiliam/hatchworkbench/internal/apperrors"
)

var (
	ErrDataImport           apperrors.Error = apperrors.New("error in data import")
	ErrInvalidImportRequest apperrors.Error = ErrDataImport.New("invalid import request").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrMissingFile          apperrors.Error = ErrInvalidImportRequest.New("no file selected")
	ErrInvalidBaselines     apperrors.Error = ErrDataImport.New("invalid baseline profiles")
	ErrUnknownBaseline      apperrors.Error = ErrDataImport.New("unknown baseline profile").SetStatusCode(http.StatusInternalServerError)
)
