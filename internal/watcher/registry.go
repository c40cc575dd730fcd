package watcher

import (
	"context"
	"encoding/json"
	"sort"

	"gorm.io/gorm"
)

// Handler processes one notification payload from a database channel.
type Handler func(ctx context.Context, payload json.RawMessage, db *gorm.DB) error

// Registry maps notification channels to their handlers. One handler per
// channel; registering again replaces the previous handler.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

// Register binds a handler to a channel.
func (r *Registry) Register(channel string, handler Handler) {
	if channel == "" || handler == nil {
		return
	}
	r.handlers[channel] = handler
}

// Channels returns the registered channel names in stable order.
func (r *Registry) Channels() []string {
	channels := make([]string, 0, len(r.handlers))
	for channel := range r.handlers {
		channels = append(channels, channel)
	}
	sort.Strings(channels)
	return channels
}

// Handler returns the handler bound to the channel, if any.
func (r *Registry) Handler(channel string) (Handler, bool) {
	handler, ok := r.handlers[channel]
	return handler, ok
}
