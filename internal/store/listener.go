package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	applog "tillbook/internal/log"
)

// Listener is the change-event source: a dedicated Postgres connection that
// LISTENs on the shared notification channel and decodes each payload into
// an Event. It only exists when the networked backend is active; local-only
// processes never construct one.
type Listener struct {
	conn   *pgx.Conn
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
}

// StartListener connects, subscribes, and begins delivering events on the
// returned Listener's channel until Close or ctx cancellation.
func StartListener(ctx context.Context, dsn string) (*Listener, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect listener: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("listen %s: %w", NotifyChannel, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	l := &Listener{
		conn:   conn,
		events: make(chan Event, 64),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go l.run(ctx)
	return l, nil
}

// Events delivers decoded change notifications. The channel is closed when
// the listener stops.
func (l *Listener) Events() <-chan Event { return l.events }

// Close tears down the subscription. Safe to call once at shutdown.
func (l *Listener) Close() {
	l.cancel()
	<-l.done
}

func (l *Listener) run(ctx context.Context) {
	defer close(l.done)
	defer close(l.events)
	defer func() {
		_ = l.conn.Close(context.Background())
	}()

	for {
		n, err := l.conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				applog.Error(nil, "store.listen.drop", err, nil)
			}
			return
		}
		var ev Event
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			applog.Error(nil, "store.listen.decode", err, map[string]any{"payload": n.Payload})
			continue
		}
		select {
		case l.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
