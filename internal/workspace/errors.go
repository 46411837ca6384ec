package workspace

import (
	"net/http"

	"github.com/mugiliam/hatchworkbench/internal/apperrors"
)

var (
	ErrWorkspace            apperrors.Error = apperrors.New("error in processing workspace")
	ErrRemoteListingFailure apperrors.Error = ErrWorkspace.New("unable to list workspace objects").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
	ErrStaleListing         apperrors.Error = ErrWorkspace.New("listing superseded by a newer request").SetStatusCode(http.StatusConflict)
	ErrInvalidEvent         apperrors.Error = ErrWorkspace.New("invalid workspace event").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
)
