package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mugiliam/hatchworkbench/internal/common"
	"github.com/mugiliam/hatchworkbench/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Path string
	Body rpcRequest
}

func newTestSession(t *testing.T, handler func(method string, params []any) (any, *rpcError, int)) (*Client, *[]recordedCall) {
	var calls []recordedCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		calls = append(calls, recordedCall{Path: r.URL.Path, Body: req})

		result, rpcErr, status := handler(req.Method, req.Params)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		rsp := map[string]any{"result": result}
		if rpcErr != nil {
			rsp["error"] = rpcErr
		}
		_ = json.NewEncoder(w).Encode(rsp)
	}))
	t.Cleanup(srv.Close)
	return NewClient(Options{URL: srv.URL, ClientID: "c1", Timeout: 5 * time.Second}), &calls
}

func TestListObjects(t *testing.T) {
	ctx := log.Logger.WithContext(context.Background())
	c, calls := newTestSession(t, func(method string, params []any) (any, *rpcError, int) {
		return []map[string]any{
			{"name": "cars", "hidden": false, "metadata": map[string]any{"type": "data.frame", "len": 2, "value": "50 obs. of 2 variables"}},
			{"name": ".Random.seed", "hidden": true, "metadata": map[string]any{"type": "integer", "len": 626}},
		}, nil, http.StatusOK
	})

	objs, err := c.ListObjects(ctx)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "cars", objs[0].Name)
	assert.JSONEq(t, `{"type":"data.frame","len":2,"value":"50 obs. of 2 variables"}`, string(objs[0].Metadata))
	assert.Equal(t, "data.frame", objs[0].Metadata.Type())
	assert.True(t, objs[1].Hidden)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/rpc/list_objects", (*calls)[0].Path)
	assert.Equal(t, "c1", (*calls)[0].Body.ClientID)
}

func TestListObjectsKeepsMetadataVerbatim(t *testing.T) {
	ctx := log.Logger.WithContext(context.Background())
	c, _ := newTestSession(t, func(method string, params []any) (any, *rpcError, int) {
		return []map[string]any{
			{"name": "cars", "metadata": map[string]any{"type": "data.frame", "len": 3, "size": "1 KB", "preview": "[1,2]"}},
			{"name": "conn", "metadata": map[string]any{"type": "environment", "len": "unknown"}},
		}, nil, http.StatusOK
	})

	objs, err := c.ListObjects(ctx)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.JSONEq(t, `{"type":"data.frame","len":3,"size":"1 KB","preview":"[1,2]"}`, string(objs[0].Metadata))
	assert.JSONEq(t, `{"type":"environment","len":"unknown"}`, string(objs[1].Metadata))
	assert.Equal(t, "environment", objs[1].Metadata.Type())
}

func TestExecute(t *testing.T) {
	ctx := log.Logger.WithContext(context.Background())
	c, calls := newTestSession(t, func(method string, params []any) (any, *rpcError, int) {
		return nil, nil, http.StatusOK
	})

	require.NoError(t, c.Execute(ctx, "View(cars)"))
	require.Len(t, *calls, 1)
	assert.Equal(t, methodConsoleInput, (*calls)[0].Body.Method)
	assert.Equal(t, []any{"View(cars)"}, (*calls)[0].Body.Params)
	assert.Equal(t, "c1", (*calls)[0].Body.ClientID)

	ctx = common.SetClientIdInContext(ctx, "frontend-7")
	require.NoError(t, c.Execute(ctx, "View(mtcars)"))
	require.Len(t, *calls, 2)
	assert.Equal(t, "frontend-7", (*calls)[1].Body.ClientID)
}

func TestDownloadDataFile(t *testing.T) {
	ctx := log.Logger.WithContext(context.Background())
	c, _ := newTestSession(t, func(method string, params []any) (any, *rpcError, int) {
		return map[string]any{"path": "/tmp/RtmpX/cars.csv", "varname": "cars"}, nil, http.StatusOK
	})

	info, err := c.DownloadDataFile(ctx, "https://example.com/cars.csv")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/RtmpX/cars.csv", info.Path)
	assert.Equal(t, "cars", info.Varname)
}

func TestSessionErrors(t *testing.T) {
	ctx := log.Logger.WithContext(context.Background())

	c, _ := newTestSession(t, func(method string, params []any) (any, *rpcError, int) {
		return nil, &rpcError{Code: 4, Message: "session suspended"}, http.StatusOK
	})
	_, err := c.ListObjects(ctx)
	assert.ErrorIs(t, err, ErrSessionRPC)
	assert.ErrorIs(t, err, ErrSession)

	c, _ = newTestSession(t, func(method string, params []any) (any, *rpcError, int) {
		return nil, nil, http.StatusServiceUnavailable
	})
	_, err = c.ListObjects(ctx)
	assert.ErrorIs(t, err, ErrSessionRequest)

	c = NewClient(Options{URL: "http://127.0.0.1:1", Timeout: time.Second})
	err = c.Execute(ctx, "1+1")
	assert.ErrorIs(t, err, ErrSessionRequest)
}

func TestWorkspaceOperations(t *testing.T) {
	ctx := log.Logger.WithContext(context.Background())
	c, calls := newTestSession(t, func(method string, params []any) (any, *rpcError, int) {
		return nil, nil, http.StatusOK
	})

	tests := []struct {
		name   string
		run    func() error
		method string
		params []any
	}{
		{"clear", func() error { return c.RemoveAllObjects(ctx) }, methodRemoveAllObjects, []any{}},
		{"save", func() error { return c.SaveWorkspace(ctx, "/home/me/a.RData") }, methodSaveWorkspace, []any{"/home/me/a.RData"}},
		{"load", func() error { return c.LoadWorkspace(ctx, "/data/cars.rda") }, methodLoadWorkspace, []any{"/data/cars.rda"}},
		{
			"spreadsheet",
			func() error {
				return c.ImportGoogleSpreadsheet(ctx, api.GoogleSpreadsheetImportSpec{ResourceID: "1x", ObjectName: "sheet"})
			},
			methodImportGoogleSpreadsheet,
			[]any{map[string]any{"resource_id": "1x", "object_name": "sheet"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := len(*calls)
			require.NoError(t, tt.run())
			require.Len(t, *calls, n+1)
			call := (*calls)[n]
			assert.Equal(t, "/rpc/"+tt.method, call.Path)
			assert.Equal(t, tt.method, call.Body.Method)
			assert.Equal(t, tt.params, call.Body.Params)
		})
	}
}

func TestWorkspaceOperationErrors(t *testing.T) {
	ctx := log.Logger.WithContext(context.Background())
	c, _ := newTestSession(t, func(method string, params []any) (any, *rpcError, int) {
		return nil, &rpcError{Code: 2, Message: "cannot open file"}, http.StatusOK
	})
	assert.ErrorIs(t, c.LoadWorkspace(ctx, "/missing.RData"), ErrSessionRPC)
	assert.ErrorIs(t, c.SaveWorkspace(ctx, "/ro/a.RData"), ErrSessionRPC)
	assert.ErrorIs(t, c.RemoveAllObjects(ctx), ErrSessionRPC)
}
