package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mugiliam/hatchworkbench/internal/dataimport"
	"github.com/mugiliam/hatchworkbench/internal/workspace"
	"github.com/mugiliam/hatchworkbench/pkg/api"
	"github.com/mugiliam/hatchworkbench/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	mu      sync.Mutex
	objects []types.ObjectDescriptor
	err     error
}

func (f *fakeLister) set(objects []types.ObjectDescriptor, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects, f.err = objects, err
}

func (f *fakeLister) ListObjects(ctx context.Context) ([]types.ObjectDescriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects, f.err
}

type fakeConsole struct {
	mu    sync.Mutex
	codes []string
	err   error
}

func (f *fakeConsole) Execute(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.codes = append(f.codes, code)
	return nil
}

func (f *fakeConsole) executed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.codes...)
}

type fakeDownloader struct {
	info *api.DownloadInfo
	err  error
	urls []string
}

func (f *fakeDownloader) DownloadDataFile(ctx context.Context, url string) (*api.DownloadInfo, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

type fakeWorkspace struct {
	mu     sync.Mutex
	lister *fakeLister
	calls  []string
	err    error
	loaded []types.ObjectDescriptor
}

func (f *fakeWorkspace) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeWorkspace) history() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeWorkspace) RemoveAllObjects(ctx context.Context) error {
	if err := f.record("clear"); err != nil {
		return err
	}
	f.lister.set(nil, nil)
	return nil
}

func (f *fakeWorkspace) SaveWorkspace(ctx context.Context, path string) error {
	return f.record("save " + path)
}

func (f *fakeWorkspace) LoadWorkspace(ctx context.Context, path string) error {
	if err := f.record("load " + path); err != nil {
		return err
	}
	f.lister.set(f.loaded, nil)
	return nil
}

type fakeSpreadsheets struct {
	specs []api.GoogleSpreadsheetImportSpec
	err   error
}

func (f *fakeSpreadsheets) ImportGoogleSpreadsheet(ctx context.Context, spec api.GoogleSpreadsheetImportSpec) error {
	if f.err != nil {
		return f.err
	}
	f.specs = append(f.specs, spec)
	return nil
}

type testEnv struct {
	server     *HatchWorkbenchServer
	cache      *workspace.Reconciler
	feed       *workspace.Feed
	lister     *fakeLister
	console    *fakeConsole
	downloader *fakeDownloader

	manager      *fakeWorkspace
	spreadsheets *fakeSpreadsheets
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		feed:       workspace.NewFeed(),
		lister:     &fakeLister{},
		console:    &fakeConsole{},
		downloader: &fakeDownloader{},

		spreadsheets: &fakeSpreadsheets{},
	}
	e.manager = &fakeWorkspace{lister: e.lister}
	t.Cleanup(func() { e.feed.Close() })
	e.cache = workspace.NewReconciler(e.feed)

	s, err := CreateNewServer(Deps{
		Cache:       e.cache,
		Syncer:      workspace.NewSyncer(e.lister, e.cache, e.feed),
		Feed:        e.feed,
		Synthesizer: dataimport.NewSynthesizer(dataimport.DefaultBaselines()),
		Console:     e.console,
		Downloader:  e.downloader,

		Workspace:    e.manager,
		Spreadsheets: e.spreadsheets,
	})
	require.NoError(t, err, "create new server")

	// Mount Handlers
	s.MountHandlers()
	e.server = s
	return e
}

func executeTestRequest(t *testing.T, e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	e.server.Router.ServeHTTP(rr, req)
	return rr
}

func checkHeader(t *testing.T, h http.Header) {
	expected := "application/json"
	got := h.Get("Content-Type")
	assert.Equal(t, expected, got, "Content-Type expected %s, got %s", expected, got)
	assert.NotEmpty(t, h.Get("X-Request-ID"), "No Request Id")
}

func compareJson(t *testing.T, expected any, actual string) {
	j, err := json.Marshal(expected)
	assert.NoError(t, err, "json marshal")
	assert.JSONEq(t, string(j), actual, "Expected: %v\n Got: %v\n", expected, actual)
}

func setRequestBodyAndHeader(t *testing.T, req *http.Request, data interface{}) {
	jsonData, err := json.Marshal(data)
	assert.NoError(t, err, "Failed to marshal data into JSON")

	req.Body = io.NopCloser(bytes.NewReader(jsonData))
	req.ContentLength = int64(len(jsonData))
	req.Header.Set("Content-Type", "application/json")
}

func newJsonRequest(t *testing.T, method, target string, data any) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	setRequestBodyAndHeader(t, req, data)
	return req
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}
