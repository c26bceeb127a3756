// Package routes registers grouped HTTP routes on a ServeMux.
package routes

import (
	"net/http"
	"strings"
)

// Route binds a method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds every route in groups to mux, prefixed with basePath and
// each group's prefix. Patterns use Go 1.22 method routing ("GET /path").
func Register(mux *http.ServeMux, basePath string, groups ...Group) {
	for _, g := range groups {
		register(mux, join(basePath, g.Prefix), g)
	}
}

func register(mux *http.ServeMux, prefix string, g Group) {
	for _, r := range g.Routes {
		path := join(prefix, r.Pattern)
		if r.Method != "" {
			path = r.Method + " " + path
		}
		mux.HandleFunc(path, r.Handler)
	}
	for _, child := range g.Children {
		register(mux, join(prefix, child.Prefix), child)
	}
}

func join(prefix, pattern string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if pattern == "" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	return prefix + pattern
}
