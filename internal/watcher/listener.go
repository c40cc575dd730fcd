package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fplduel/fplduel-backend/pkg/logger"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	defaultMinReconnect = 10 * time.Second
	defaultMaxReconnect = time.Minute
	pingInterval        = 90 * time.Second
)

// ListenerParams configure the notification listener.
type ListenerParams struct {
	Logger       *logger.Logger
	DSN          string
	Registry     *Registry
	DB           *gorm.DB
	MinReconnect time.Duration
	MaxReconnect time.Duration
}

// Listener subscribes to the registered channels over a dedicated postgres
// connection and dispatches payloads to their handlers. Delivery is
// best-effort: notifications raised while the connection is down are gone.
type Listener struct {
	logg         *logger.Logger
	dsn          string
	registry     *Registry
	db           *gorm.DB
	minReconnect time.Duration
	maxReconnect time.Duration
}

// NewListener builds a listener.
func NewListener(params ListenerParams) (*Listener, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DSN == "" {
		return nil, fmt.Errorf("database dsn required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("registry required")
	}
	minReconnect := params.MinReconnect
	if minReconnect <= 0 {
		minReconnect = defaultMinReconnect
	}
	maxReconnect := params.MaxReconnect
	if maxReconnect <= 0 {
		maxReconnect = defaultMaxReconnect
	}
	return &Listener{
		logg:         params.Logger,
		dsn:          params.DSN,
		registry:     params.Registry,
		db:           params.DB,
		minReconnect: minReconnect,
		maxReconnect: maxReconnect,
	}, nil
}

// Run listens until the context is canceled.
func (l *Listener) Run(ctx context.Context) error {
	if len(l.registry.Channels()) == 0 {
		return fmt.Errorf("no channels registered")
	}

	pqListener := pq.NewListener(l.dsn, l.minReconnect, l.maxReconnect, l.connectionEvent(ctx))
	defer pqListener.Close()

	for _, channel := range l.registry.Channels() {
		if err := pqListener.Listen(channel); err != nil {
			return fmt.Errorf("listen %s: %w", channel, err)
		}
		l.logg.Info(l.logg.WithField(ctx, "channel", channel), "listening")
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logg.Info(ctx, "watcher stopped")
			return ctx.Err()
		case notification := <-pqListener.Notify:
			// nil marks a reconnect; subscriptions survive it
			if notification == nil {
				continue
			}
			l.dispatch(ctx, notification.Channel, json.RawMessage(notification.Extra))
		case <-ping.C:
			if err := pqListener.Ping(); err != nil {
				l.logg.Error(ctx, "watcher connection ping failed", err)
			}
		}
	}
}

func (l *Listener) dispatch(ctx context.Context, channel string, payload json.RawMessage) {
	dispatchCtx := l.logg.WithField(ctx, "channel", channel)
	handler, ok := l.registry.Handler(channel)
	if !ok {
		l.logg.Warn(dispatchCtx, "notification on unhandled channel")
		return
	}
	if err := l.safeHandle(dispatchCtx, handler, payload); err != nil {
		l.logg.Error(dispatchCtx, "notification handler failed", err)
		return
	}
	l.logg.Info(dispatchCtx, "notification handled")
}

func (l *Listener) safeHandle(ctx context.Context, handler Handler, payload json.RawMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler(ctx, payload, l.db)
}

func (l *Listener) connectionEvent(ctx context.Context) pq.EventCallbackType {
	return func(event pq.ListenerEventType, err error) {
		switch event {
		case pq.ListenerEventConnectionAttemptFailed:
			l.logg.Error(ctx, "watcher connection attempt failed", err)
		case pq.ListenerEventDisconnected:
			l.logg.Warn(ctx, "watcher disconnected")
		case pq.ListenerEventReconnected:
			l.logg.Info(ctx, "watcher reconnected")
		}
	}
}
