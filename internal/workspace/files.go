package workspace

import (
	"path/filepath"
	"strings"
)

// DataFileExt is the extension given to saved workspaces.
const DataFileExt = ".RData"

// DataFileName returns path with DataFileExt appended unless it already ends
// in that extension, ignoring case.
func DataFileName(path string) string {
	if strings.EqualFold(filepath.Ext(path), DataFileExt) {
		return path
	}
	return path + DataFileExt
}
