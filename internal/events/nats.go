package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix namespaces every published subject.
const SubjectPrefix = "jokatech.events"

var ErrBusClosed = errors.New("events: bus closed")

// transport is the subset of a NATS connection the bus needs.
type transport interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func() error, err error)
	Close()
}

type natsTransport struct {
	nc *nats.Conn
}

func (t natsTransport) Publish(subject string, data []byte) error {
	return t.nc.Publish(subject, data)
}

func (t natsTransport) Subscribe(subject string, handler func([]byte)) (func() error, error) {
	sub, err := t.nc.Subscribe(subject, func(m *nats.Msg) { handler(m.Data) })
	if err != nil {
		return nil, err
	}
	return sub.Unsubscribe, nil
}

func (t natsTransport) Close() {
	t.nc.Close()
}

// NATSBus fans events out through NATS so every server instance sees them.
type NATSBus struct {
	t      transport
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewNATSBus connects to url and returns a bus using it.
func NewNATSBus(url string, logger *slog.Logger) (*NATSBus, error) {
	nc, err := nats.Connect(url,
		nats.Name("jokatech-storefront"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return newNATSBus(natsTransport{nc: nc}, logger), nil
}

func newNATSBus(t transport, logger *slog.Logger) *NATSBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSBus{t: t, logger: logger}
}

func subjectFor(t Type) string {
	return SubjectPrefix + "." + string(t)
}

func (b *NATSBus) Publish(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := b.t.Publish(subjectFor(e.Type), data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	return nil
}

func (b *NATSBus) Subscribe(filter Filter) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	ch := make(chan Event, subscriberBuffer)
	var (
		mu   sync.Mutex
		done bool
	)

	unsubscribe, err := b.t.Subscribe(SubjectPrefix+".>", func(data []byte) {
		var e Event
		if err := json.Unmarshal(data, &e); err != nil {
			b.logger.Warn("dropping undecodable event", "error", err)
			return
		}
		if filter != nil && !filter(e) {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if done {
			return
		}
		select {
		case ch <- e:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	return &Subscription{
		C: ch,
		close: func() {
			mu.Lock()
			defer mu.Unlock()
			if done {
				return
			}
			done = true
			if err := unsubscribe(); err != nil {
				b.logger.Warn("nats unsubscribe failed", "error", err)
			}
			close(ch)
		},
	}, nil
}

func (b *NATSBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		b.t.Close()
	}
	return nil
}
