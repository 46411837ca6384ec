// Package httpx adapts handlers that return a response or an error to
// net/http, and renders errors as JSON.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mugiliam/hatchworkbench/internal/apperrors"
	"github.com/rs/zerolog/log"
)

type Response struct {
	StatusCode int
	Location   string
	Response   any
}

type Error struct {
	StatusCode  int    `json:"-"`
	Description string `json:"error"`
}

func (e *Error) Error() string {
	return e.Description
}

// Send writes the error as a JSON body with its status code.
func (e *Error) Send(w http.ResponseWriter) {
	writeJson(context.Background(), w, e.StatusCode, e)
}

func ErrInvalidRequest(msg ...string) *Error {
	d := "invalid request"
	if len(msg) > 0 {
		d = msg[0]
	}
	return &Error{StatusCode: http.StatusBadRequest, Description: d}
}

func ErrUnableToReadRequest() *Error {
	return &Error{StatusCode: http.StatusBadRequest, Description: "unable to read request"}
}

func ErrNotFound(msg string) *Error {
	return &Error{StatusCode: http.StatusNotFound, Description: msg}
}

// ToHttpxError maps an application error to its status code and full
// message. Application errors without a status code are internal errors.
func ToHttpxError(err error) *Error {
	var hErr *Error
	if errors.As(err, &hErr) {
		return hErr
	}
	if appErr, ok := err.(apperrors.Error); ok {
		statusCode := appErr.StatusCode()
		if statusCode == 0 {
			statusCode = http.StatusInternalServerError
		}
		return &Error{
			StatusCode:  statusCode,
			Description: appErr.ErrorAll(),
		}
	}
	return &Error{StatusCode: http.StatusInternalServerError, Description: err.Error()}
}

type HandlerFunc func(r *http.Request) (*Response, error)

// WrapHttpRsp turns a HandlerFunc into an http.HandlerFunc.
func WrapHttpRsp(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rsp, err := h(r)
		if err != nil {
			hErr := ToHttpxError(err)
			if hErr.StatusCode >= http.StatusInternalServerError {
				log.Ctx(ctx).Error().Err(err).Int("status", hErr.StatusCode).Msg("request failed")
			} else {
				log.Ctx(ctx).Info().Err(err).Int("status", hErr.StatusCode).Msg("request rejected")
			}
			writeJson(ctx, w, hErr.StatusCode, hErr)
			return
		}
		if rsp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if rsp.Location != "" {
			w.Header().Set("Location", rsp.Location)
		}
		if rsp.Response == nil {
			w.WriteHeader(rsp.StatusCode)
			return
		}
		SendJsonRsp(ctx, w, rsp.StatusCode, rsp.Response)
	}
}

// SendJsonRsp writes rsp as JSON. Byte slices are taken to be JSON already.
func SendJsonRsp(ctx context.Context, w http.ResponseWriter, statusCode int, rsp any) {
	writeJson(ctx, w, statusCode, rsp)
}

func writeJson(ctx context.Context, w http.ResponseWriter, statusCode int, rsp any) {
	var body []byte
	switch v := rsp.(type) {
	case []byte:
		body = v
	case json.RawMessage:
		body = v
	default:
		var err error
		if body, err = json.Marshal(rsp); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("unable to marshal response")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to write response")
	}
}
