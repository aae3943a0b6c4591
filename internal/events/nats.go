package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// NatsBus is an embedded NATS server plus an internal client connection.
// It runs as a worker and implements Bus for the rest of the process.
type NatsBus struct {
	ns   *server.Server
	conn *nats.Conn

	startupTimeout time.Duration
	host           string
	port           int
}

type NatsBusOpt func(*NatsBus)

func WithStartTimeout(d time.Duration) NatsBusOpt {
	return func(b *NatsBus) {
		b.startupTimeout = d
	}
}

func WithHost(host string) NatsBusOpt {
	return func(b *NatsBus) {
		b.host = host
	}
}

func WithPort(port int) NatsBusOpt {
	return func(b *NatsBus) {
		b.port = port
	}
}

func NewNatsBus(opts ...NatsBusOpt) (*NatsBus, error) {
	b := &NatsBus{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
	}

	for _, opt := range opts {
		opt(b)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   b.host,
		Port:   b.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, err
	}
	b.ns = ns

	return b, nil
}

func (b *NatsBus) Start(ctx context.Context) error {
	b.ns.Start()

	if !b.ns.ReadyForConnections(b.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	conn, err := nats.Connect(b.clientURL())
	if err != nil {
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	b.conn = conn

	slog.InfoContext(ctx, "event bus listening", "addr", b.ns.Addr())

	<-ctx.Done()
	b.conn.Close()
	b.ns.Shutdown()
	b.ns.WaitForShutdown()

	return nil
}

func (b *NatsBus) clientURL() string {
	return fmt.Sprintf("nats://%s:%d", b.host, b.port)
}

func (b *NatsBus) Publish(subject string, data []byte) error {
	if b.conn == nil {
		return fmt.Errorf("event bus not started")
	}
	return b.conn.Publish(subject, data)
}

func (b *NatsBus) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	if b.conn == nil {
		return nil, fmt.Errorf("event bus not started")
	}
	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = sub.Unsubscribe() }, nil
}
