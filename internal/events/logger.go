package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Logger is a worker that subscribes to the event subject and writes each
// game event to the log. It retries the subscription until the bus has
// started, since worker startup order is not guaranteed.
type Logger struct {
	bus Bus
}

func NewLogger(bus Bus) *Logger {
	return &Logger{bus: bus}
}

func (l *Logger) Start(ctx context.Context) error {
	var unsub func()
	for {
		var err error
		unsub, err = l.bus.Subscribe(Subject, func(data []byte) {
			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				slog.WarnContext(ctx, "malformed game event", "error", err)
				return
			}
			slog.InfoContext(ctx, "game event",
				"kind", ev.Kind,
				"session", ev.Session,
				"player", ev.Player,
				"room", ev.Room,
				"item", ev.Item,
			)
		})
		if err == nil {
			break
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(100 * time.Millisecond):
		}
	}
	defer unsub()

	<-ctx.Done()
	return nil
}
