package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// FS returns an http.FileSystem rooted at the embedded static tree.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// fs.Sub only fails if the prefix is absent from the embed.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
