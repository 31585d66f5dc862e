package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/geodrop"
	"github.com/iov-one/geodrop/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_\-/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]geodrop.Handler
}

var _ geodrop.Registry = (*Router)(nil)
var _ geodrop.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]geodrop.Handler, 10),
	}
}

// Handle adds a new Handler for the given path.
// panics if another Handler was already registered
func (r *Router) Handle(path string, h geodrop.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path.
// If no path is found, returns a noSuchPath Handler
// Always returns a non-nil Handler
func (r *Router) Handler(path string) geodrop.Handler {
	h, ok := r.routes[path]
	if !ok {
		return noSuchPathHandler{path}
	}
	return h
}

// Deliver dispatches to the handler registered for the message path.
func (r *Router) Deliver(ctx geodrop.Context, store geodrop.KVStore, tx geodrop.Tx) (*geodrop.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "missing msg")
	}
	return r.Handler(msg.Path()).Deliver(ctx, store, tx)
}

type noSuchPathHandler struct {
	path string
}

var _ geodrop.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Deliver(geodrop.Context, geodrop.KVStore, geodrop.Tx) (*geodrop.DeliverResult, error) {
	return nil, errors.Wrapf(ErrNoSuchPath, "path: %s", h.path)
}
