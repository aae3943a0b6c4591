package listener

import (
	"context"
	"io"
	"log/slog"
)

// SessionRunner runs one interactive play session over a connection.
type SessionRunner interface {
	Run(ctx context.Context, conn io.ReadWriter) error
}

type ConnectionManager struct {
	runner SessionRunner
}

func NewConnectionManager(runner SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		runner: runner,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.runner.Run(ctx, conn); err != nil {
		slog.WarnContext(ctx, "play session", "error", err)
	}
}
