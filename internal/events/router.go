// Package events routes document change events to typed notification handlers.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Operation is the kind of document write that produced a change.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// WriteOps matches any document write.
var WriteOps = []Operation{OpCreate, OpUpdate, OpDelete}

// Kind names a routed event type.
type Kind string

// ErrNoRoute is returned by Dispatch when no binding matches a change.
var ErrNoRoute = errors.New("no route for change")

// Change is a single document write as reported by an event source.
// Path is relative to the database root, e.g. "friendRequests/abc".
type Change struct {
	ID        string                 `json:"id,omitempty"`
	Operation Operation              `json:"operation" binding:"required"`
	Path      string                 `json:"path" binding:"required"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Source    string                 `json:"source,omitempty"`
}

// Handler processes a routed change. Params holds the values captured by the path pattern.
type Handler func(ctx context.Context, change Change, params map[string]string) error

// Dispatcher is implemented by Router and consumed by the event sources.
type Dispatcher interface {
	Dispatch(ctx context.Context, change Change) error
}

// Observer is told about every dispatched change.
type Observer interface {
	ObserveEvent(kind Kind, source string, err error)
}

type binding struct {
	kind     Kind
	ops      map[Operation]struct{}
	segments []string
}

// Router maps (operation, path pattern) pairs to kinds and kinds to handlers.
// Bindings are evaluated in registration order; the first match wins.
type Router struct {
	bindings  []binding
	handlers  map[Kind]Handler
	observers []Observer
	logger    *zap.Logger
}

// NewRouter creates an empty Router.
func NewRouter(logger *zap.Logger, observers ...Observer) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{handlers: map[Kind]Handler{}, observers: observers, logger: logger}
}

// Bind routes changes whose path matches pattern and whose operation is in ops to kind.
// Pattern segments written as {name} match any single segment and are captured as params.
func (r *Router) Bind(kind Kind, pattern string, ops ...Operation) {
	set := make(map[Operation]struct{}, len(ops))
	for _, op := range ops {
		set[op] = struct{}{}
	}
	r.bindings = append(r.bindings, binding{kind: kind, ops: set, segments: splitPath(pattern)})
}

// Handle registers the handler for kind, replacing any previous one.
func (r *Router) Handle(kind Kind, h Handler) {
	r.handlers[kind] = h
}

// Route resolves a change to its kind and captured params.
func (r *Router) Route(change Change) (Kind, map[string]string, bool) {
	segments := splitPath(change.Path)
	for _, b := range r.bindings {
		if _, ok := b.ops[change.Operation]; !ok {
			continue
		}
		if params, ok := match(b.segments, segments); ok {
			return b.kind, params, true
		}
	}
	return "", nil, false
}

// Dispatch routes change and runs its handler.
func (r *Router) Dispatch(ctx context.Context, change Change) error {
	if change.ID == "" {
		change.ID = uuid.NewString()
	}
	log := r.logger.With(
		zap.String("eventID", change.ID),
		zap.String("operation", string(change.Operation)),
		zap.String("path", change.Path),
		zap.String("source", change.Source),
	)

	kind, params, ok := r.Route(change)
	if !ok {
		log.Debug("No route for change")
		r.observe("", change.Source, ErrNoRoute)
		return fmt.Errorf("%w: %s %s", ErrNoRoute, change.Operation, change.Path)
	}
	h, ok := r.handlers[kind]
	if !ok {
		err := fmt.Errorf("%w: no handler registered for kind %s", ErrNoRoute, kind)
		r.observe(kind, change.Source, err)
		return err
	}

	err := h(ctx, change, params)
	if err != nil {
		log.Warn("Event handler failed", zap.String("kind", string(kind)), zap.Error(err))
	} else {
		log.Debug("Event handled", zap.String("kind", string(kind)))
	}
	r.observe(kind, change.Source, err)
	return err
}

func (r *Router) observe(kind Kind, source string, err error) {
	for _, o := range r.observers {
		o.ObserveEvent(kind, source, err)
	}
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func match(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if path[i] == "" {
				return nil, false
			}
			params[seg[1:len(seg)-1]] = path[i]
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}
	return params, true
}
