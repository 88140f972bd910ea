// Package router is a thin layer over http.ServeMux: method helpers,
// prefix groups and middleware chains.
package router

import (
	"net/http"
	"path"
	"slices"
	"strings"
	"sync"
)

// Middleware is a function that wraps an http.Handler
type Middleware func(http.Handler) http.Handler

// Router registers routes on a shared ServeMux. Groups share the mux and
// extend the prefix and route middleware.
type Router struct {
	mux    *http.ServeMux
	global []Middleware
	chain  []Middleware
	prefix string

	once    sync.Once
	handler http.Handler
}

// New creates a Router. global middleware wraps the whole mux, so it runs
// for unmatched paths too.
func New(global ...Middleware) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		global: global,
	}
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Handler().ServeHTTP(w, req)
}

// Handler returns the mux wrapped in the global middleware. Routes added
// later are still served.
func (r *Router) Handler() http.Handler {
	r.once.Do(func() {
		r.handler = chain(r.mux, r.global)
	})
	return r.handler
}

func (r *Router) Get(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodGet, pattern, h, mw...)
}

func (r *Router) Post(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPost, pattern, h, mw...)
}

func (r *Router) Put(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPut, pattern, h, mw...)
}

func (r *Router) Patch(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPatch, pattern, h, mw...)
}

func (r *Router) Delete(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodDelete, pattern, h, mw...)
}

// Handle registers h for method and the group-prefixed pattern. An empty
// method matches any method.
func (r *Router) Handle(method, pattern string, h http.Handler, mw ...Middleware) {
	full := r.join(pattern)
	if method != "" {
		full = method + " " + full
	}
	r.mux.Handle(full, chain(h, append(slices.Clone(r.chain), mw...)))
}

// Group returns a sub-router under prefix with extra middleware.
func (r *Router) Group(prefix string, mw ...Middleware) *Router {
	return &Router{
		mux:    r.mux,
		global: r.global,
		chain:  append(slices.Clone(r.chain), mw...),
		prefix: r.join(prefix),
	}
}

// Static serves files from dir under prefix.
func (r *Router) Static(prefix, dir string) {
	clean := strings.TrimSuffix(r.join(prefix), "/")
	fs := http.StripPrefix(clean, http.FileServer(http.Dir(dir)))
	r.mux.Handle("GET "+clean+"/{file...}", chain(fs, r.chain))
}

// NotFound registers h for every path no other route claims.
func (r *Router) NotFound(h http.HandlerFunc) {
	r.mux.Handle("/", chain(h, r.chain))
}

func (r *Router) join(pattern string) string {
	if r.prefix == "" {
		return pattern
	}
	if pattern == "" || pattern == "/" {
		return r.prefix
	}
	joined := path.Join(r.prefix, pattern)
	if strings.HasSuffix(pattern, "/") {
		joined += "/"
	}
	return joined
}

// chain applies mw so the first element runs outermost.
func chain(h http.Handler, mw []Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
