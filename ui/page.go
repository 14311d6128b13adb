// Package ui holds the task list page and the list state machine shared by
// the page and the terminal client.
package ui

//go:generate templ generate -f page.templ

import (
	"embed"
	"io/fs"
	"strings"
)

//go:embed static
var staticFiles embed.FS

// Assets returns the page's scripts and styles rooted at the static dir.
func Assets() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// PageOptions configures the task list page.
type PageOptions struct {
	Title      string
	APIPath    string
	AssetsPath string
}

func (o PageOptions) title() string {
	if strings.TrimSpace(o.Title) == "" {
		return "todos"
	}
	return o.Title
}

// asset joins name onto AssetsPath, tolerating a trailing slash.
func (o PageOptions) asset(name string) string {
	return strings.TrimRight(o.AssetsPath, "/") + "/" + name
}
