package site

import (
	"embed"
	"io/fs"
)

//go:embed static/**
var staticFS embed.FS

// uploadPage is the embedded tree rooted at static/, so index.html is served at /.
var uploadPage = mustSub(staticFS, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic("site: embedded " + dir + " missing: " + err.Error())
	}
	return sub
}
