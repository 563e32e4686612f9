package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Mirrored events are an audit trail for other consumers, not a work queue.
const (
	eventRetention   = 7 * 24 * time.Hour
	eventMaxMessages = 500_000
	dedupWindow      = 2 * time.Minute
)

var errNotConnected = errors.New("nats: jetstream not connected")

// NATSClient is the JetStream connection events are mirrored through
type NATSClient struct {
	servers string
	conn    *nats.Conn
	js      nats.JetStreamContext
}

func NewNATSClient(servers string) *NATSClient {
	return &NATSClient{servers: servers}
}

// Connect dials the servers and opens a JetStream context. The dial is
// abandoned when ctx ends first.
func (c *NATSClient) Connect(ctx context.Context) error {
	logger := log.WithField("servers", c.servers)

	type result struct {
		conn *nats.Conn
		err  error
	}
	dialed := make(chan result, 1)
	go func() {
		conn, err := nats.Connect(c.servers,
			nats.Name("cogbot"),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					logger.WithError(err).Warn("Lost NATS connection")
				}
			}),
			nats.ReconnectHandler(func(conn *nats.Conn) {
				logger.WithField("url", conn.ConnectedUrl()).Info("Reconnected to NATS")
			}),
		)
		dialed <- result{conn, err}
	}()

	var conn *nats.Conn
	select {
	case <-ctx.Done():
		go func() {
			if r := <-dialed; r.conn != nil {
				r.conn.Close()
			}
		}()
		return fmt.Errorf("nats connect: %w", ctx.Err())
	case r := <-dialed:
		if r.err != nil {
			return fmt.Errorf("nats connect: %w", r.err)
		}
		conn = r.conn
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return fmt.Errorf("jetstream context: %w", err)
	}

	c.conn = conn
	c.js = js
	logger.Info("Connected to NATS")
	return nil
}

// EnsureStream creates the event stream, or updates its subjects when the bot
// gained new event types since the stream was created.
func (c *NATSClient) EnsureStream(name string, subjects []string) error {
	if c.js == nil {
		return errNotConnected
	}

	cfg := &nats.StreamConfig{
		Name:        name,
		Description: "cogbot domain events",
		Subjects:    subjects,
		Retention:   nats.LimitsPolicy,
		Discard:     nats.DiscardOld,
		MaxAge:      eventRetention,
		MaxMsgs:     eventMaxMessages,
		Duplicates:  dedupWindow,
		Storage:     nats.FileStorage,
	}

	_, err := c.js.StreamInfo(name)
	switch {
	case errors.Is(err, nats.ErrStreamNotFound):
		if _, err := c.js.AddStream(cfg); err != nil {
			return fmt.Errorf("create stream %s: %w", name, err)
		}
		log.WithFields(log.Fields{"stream": name, "subjects": len(subjects)}).Info("Created event stream")
	case err != nil:
		return fmt.Errorf("stream info %s: %w", name, err)
	default:
		if _, err := c.js.UpdateStream(cfg); err != nil {
			return fmt.Errorf("update stream %s: %w", name, err)
		}
		log.WithField("stream", name).Debug("Event stream up to date")
	}
	return nil
}

// Publish implements MessagePublisher. A non-empty msgID is used for
// JetStream de-duplication.
func (c *NATSClient) Publish(ctx context.Context, subject string, data []byte, msgID string) error {
	if c.js == nil {
		return errNotConnected
	}

	opts := []nats.PubOpt{nats.Context(ctx)}
	if msgID != "" {
		opts = append(opts, nats.MsgId(msgID))
	}
	ack, err := c.js.Publish(subject, data, opts...)
	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	if ack.Duplicate {
		log.WithField("msg_id", msgID).Debug("NATS dropped duplicate event")
	}
	return nil
}

// Close drains pending publishes before closing
func (c *NATSClient) Close() error {
	if c.conn == nil {
		return nil
	}
	defer func() { c.conn, c.js = nil, nil }()
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
		return fmt.Errorf("nats drain: %w", err)
	}
	return nil
}
