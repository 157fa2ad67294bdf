// Package message routes action requests between the import front end and the
// configuration store.
package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ActionImportConfig asks the receiver to replace its configuration.
const ActionImportConfig = "importConfig"

// ErrUnknownAction is returned by Send when no handler is registered.
var ErrUnknownAction = errors.New("unknown action")

type Request struct {
	Action string          `json:"action"`
	Config json.RawMessage `json:"config,omitempty"`
}

type Response struct {
	Success bool `json:"success"`
}

// Handler answers one request.
type Handler func(ctx context.Context, req Request) Response

// Sender delivers a request and waits for its response.
type Sender interface {
	Send(ctx context.Context, req Request) (Response, error)
}

// Router dispatches requests to handlers registered by action.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Handle registers h for action, replacing any previous handler.
func (r *Router) Handle(action string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[action] = h
}

func (r *Router) Send(ctx context.Context, req Request) (Response, error) {
	r.mu.RLock()
	h, ok := r.handlers[req.Action]
	r.mu.RUnlock()
	if !ok {
		return Response{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	return h(ctx, req), nil
}

// ConfigImporter is the receiving side of ActionImportConfig.
type ConfigImporter interface {
	Import(ctx context.Context, raw json.RawMessage) bool
}

// HandleImportConfig wires ActionImportConfig to importer.
func (r *Router) HandleImportConfig(importer ConfigImporter) {
	r.Handle(ActionImportConfig, func(ctx context.Context, req Request) Response {
		return Response{Success: importer.Import(ctx, req.Config)}
	})
}
