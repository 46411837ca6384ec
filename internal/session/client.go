// Package session talks to the interpreter session over its JSON RPC
// endpoint. It is the workspace Lister and the console Sink of the workbench.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mugiliam/hatchworkbench/internal/apperrors"
	"github.com/mugiliam/hatchworkbench/internal/common"
	"github.com/mugiliam/hatchworkbench/internal/console"
	"github.com/mugiliam/hatchworkbench/internal/workspace"
	"github.com/mugiliam/hatchworkbench/pkg/api"
	"github.com/mugiliam/hatchworkbench/pkg/types"
	"github.com/rs/zerolog/log"
)

const (
	methodListObjects      = "list_objects"
	methodConsoleInput     = "console_input"
	methodDownloadDataFile = "download_data_file"

	methodRemoveAllObjects        = "remove_all_objects"
	methodSaveWorkspace           = "save_workspace"
	methodLoadWorkspace           = "load_workspace"
	methodImportGoogleSpreadsheet = "import_google_spreadsheet"
)

var (
	ErrSession        apperrors.Error = apperrors.New("error in session request").SetExpandError(true).SetStatusCode(http.StatusBadGateway)
	ErrSessionRequest apperrors.Error = ErrSession.New("session request failed")
	ErrSessionRPC     apperrors.Error = ErrSession.New("session returned an error")
)

type Options struct {
	URL        string
	ClientID   string
	Timeout    time.Duration
	RetryCount int
}

type rpcRequest struct {
	Method   string `json:"method"`
	Params   []any  `json:"params"`
	ClientID string `json:"clientId,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error,omitempty"`
}

type Client struct {
	rest     *resty.Client
	clientID string
}

var (
	_ workspace.Lister = (*Client)(nil)
	_ console.Sink     = (*Client)(nil)
)

func NewClient(opts Options) *Client {
	rest := resty.New().
		SetBaseURL(opts.URL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		rest.SetTimeout(opts.Timeout)
	}
	if opts.RetryCount > 0 {
		rest.SetRetryCount(opts.RetryCount)
	}
	return &Client{rest: rest, clientID: opts.ClientID}
}

func (c *Client) call(ctx context.Context, method string, result any, params ...any) apperrors.Error {
	if params == nil {
		params = []any{}
	}
	clientID := c.clientID
	if id := common.ClientIdFromContext(ctx); id != "" {
		clientID = string(id)
	}
	rsp := &rpcResponse{}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(&rpcRequest{Method: method, Params: params, ClientID: clientID}).
		SetResult(rsp).
		Post("/rpc/" + method)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("method", method).Msg("session request failed")
		return ErrSessionRequest.Err(err)
	}
	if resp.IsError() {
		log.Ctx(ctx).Error().Int("status", resp.StatusCode()).Str("method", method).Msg("session request failed")
		return ErrSessionRequest.Msg("session request failed with status " + resp.Status())
	}
	if rsp.Error != nil {
		log.Ctx(ctx).Error().Int("code", rsp.Error.Code).Str("method", method).Str("message", rsp.Error.Message).Msg("session rpc error")
		return ErrSessionRPC.Msg(rsp.Error.Message)
	}
	if result != nil && len(rsp.Result) > 0 {
		if err := json.Unmarshal(rsp.Result, result); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("method", method).Msg("unable to decode session response")
			return ErrSessionRequest.MsgErr("unable to decode session response", err)
		}
	}
	return nil
}

// ListObjects returns every object in the workspace, hidden ones included.
func (c *Client) ListObjects(ctx context.Context) ([]types.ObjectDescriptor, error) {
	var objects []types.ObjectDescriptor
	if err := c.call(ctx, methodListObjects, &objects); err != nil {
		return nil, err
	}
	return objects, nil
}

// Execute sends code to the console as if the user had typed it.
func (c *Client) Execute(ctx context.Context, code string) error {
	if err := c.call(ctx, methodConsoleInput, nil, code); err != nil {
		return err
	}
	return nil
}

// DownloadDataFile has the session fetch url into a local file and returns
// its path together with a suggested variable name.
func (c *Client) DownloadDataFile(ctx context.Context, url string) (*api.DownloadInfo, error) {
	info := &api.DownloadInfo{}
	if err := c.call(ctx, methodDownloadDataFile, info, url); err != nil {
		return nil, err
	}
	return info, nil
}

// RemoveAllObjects clears the workspace.
func (c *Client) RemoveAllObjects(ctx context.Context) error {
	if err := c.call(ctx, methodRemoveAllObjects, nil); err != nil {
		return err
	}
	return nil
}

// SaveWorkspace writes every workspace object to the data file at path.
func (c *Client) SaveWorkspace(ctx context.Context, path string) error {
	if err := c.call(ctx, methodSaveWorkspace, nil, path); err != nil {
		return err
	}
	return nil
}

// LoadWorkspace loads the objects of a saved workspace or data file into the
// workspace.
func (c *Client) LoadWorkspace(ctx context.Context, path string) error {
	if err := c.call(ctx, methodLoadWorkspace, nil, path); err != nil {
		return err
	}
	return nil
}

func (c *Client) ImportGoogleSpreadsheet(ctx context.Context, spec api.GoogleSpreadsheetImportSpec) error {
	if err := c.call(ctx, methodImportGoogleSpreadsheet, nil, spec); err != nil {
		return err
	}
	return nil
}
