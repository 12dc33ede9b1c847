// Package site serves the embedded landing page at the server root.
package site

import (
	"context"
	"net/http"
)

// Register mounts the embedded site at /. The file server answers 404
// for paths no other route claimed, so it doubles as the fallback
// handler.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/", http.FileServer(FS()))
}
