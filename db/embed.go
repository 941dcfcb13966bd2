// Package db embeds the default SQL templates into the binary.
//
// Templates live under sql/<dialect>/<module>/<name>.sql and are served by
// the "embed" template store when no external directory or bucket is
// configured.
package db

import (
	"embed"
	"io/fs"
)

//go:embed sql
var templatesFS embed.FS

// Templates returns the embedded template tree rooted at sql/.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "sql")
	if err != nil {
		// fs.Sub only fails on an invalid path literal
		panic(err)
	}
	return sub
}
