package api

import "github.com/mugiliam/hatchworkbench/pkg/types"

// WorkspaceEvent is a single change notification from the interpreter.
// Assign events carry the object, remove events carry its name and refresh
// events carry nothing.
type WorkspaceEvent struct {
	Kind   string                  `json:"kind" validate:"required,eventKindValidator"`
	Object *types.ObjectDescriptor `json:"object,omitempty" validate:"required_if=Kind assign"`
	Name   string                  `json:"name,omitempty" validate:"required_if=Kind remove"`
}

type ListObjectsRsp struct {
	Objects []types.ObjectDescriptor `json:"objects"`
}

type RefreshRsp struct {
	Mode    string `json:"mode"`
	Objects int    `json:"objects"`
}

type ObjectActionRsp struct {
	Code string `json:"code"`
}

type ImportCommandRsp struct {
	Baseline string `json:"baseline"`
	Varname  string `json:"varname"`
	Code     string `json:"code"`
	Executed bool   `json:"executed"`
}

// ImportFromURLReq asks the session to download url and then builds the
// import command for the downloaded file. An absent Varname means the name
// suggested by the session is used.
type ImportFromURLReq struct {
	types.FormatProfile
	URL     string               `json:"url" validate:"required,http_url"`
	Varname types.NullableString `json:"varname"`
	Execute bool                 `json:"execute"`
}

// WorkspaceFileReq names a workspace data file to save to or load from. An
// empty path means the file last saved or loaded.
type WorkspaceFileReq struct {
	Path string `json:"path"`
}

type WorkspaceFileRsp struct {
	Path    string `json:"path"`
	Objects int    `json:"objects"`
}

type ClearWorkspaceRsp struct {
	Objects int `json:"objects"`
}

// GoogleSpreadsheetImportSpec asks the session to import a spreadsheet into
// the variable ObjectName.
type GoogleSpreadsheetImportSpec struct {
	ResourceID string `json:"resource_id" validate:"required"`
	ObjectName string `json:"object_name" validate:"required,symbolNameValidator"`
}

type DownloadInfo struct {
	Path    string `json:"path"`
	Varname string `json:"varname"`
}

const (
	FeedEventSnapshot      = "snapshot"
	FeedEventUpdated       = "updated"
	FeedEventRemoved       = "removed"
	FeedEventListingFailed = "listing_failed"
)

// FeedEvent is one change of the cached workspace view as streamed to
// display clients.
type FeedEvent struct {
	Type    string                   `json:"type"`
	Objects []types.ObjectDescriptor `json:"objects,omitempty"`
	Object  *types.ObjectDescriptor  `json:"object,omitempty"`
	Name    string                   `json:"name,omitempty"`
	Reason  string                   `json:"reason,omitempty"`
}
