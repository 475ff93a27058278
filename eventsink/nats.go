package eventsink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/DomeLiquid/custody/core"
)

// Publisher is the part of *nats.Conn the sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink publishes every committed controller event as JSON on <prefix>.<action>.
type NATSSink struct {
	pub    Publisher
	prefix string
}

var _ core.EventSink = (*NATSSink)(nil)

func NewNATSSink(pub Publisher, prefix string) *NATSSink {
	return &NATSSink{pub: pub, prefix: prefix}
}

// Connect dials url and keeps reconnecting forever, logging connection changes.
func Connect(url string, log zerolog.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("custody"),
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "connect nats %s", url)
	}
	return conn, nil
}

var ErrNATSURLMissing = errors.New("nats url is not configured")

// NewNATSSinkFromConfig connects to cfg.NATSURL and publishes under
// cfg.NATSSubjectPrefix. The caller owns the returned connection.
func NewNATSSinkFromConfig(cfg core.Config, log zerolog.Logger) (*NATSSink, *nats.Conn, error) {
	if cfg.NATSURL == "" {
		return nil, nil, ErrNATSURLMissing
	}
	conn, err := Connect(cfg.NATSURL, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("url", conn.ConnectedUrl()).Str("prefix", cfg.NATSSubjectPrefix).Msg("nats event sink connected")
	return NewNATSSink(conn, cfg.NATSSubjectPrefix), conn, nil
}

func (s *NATSSink) Subject(action string) string {
	if s.prefix == "" {
		return action
	}
	return fmt.Sprintf("%s.%s", s.prefix, action)
}

func (s *NATSSink) Publish(ctx context.Context, event *core.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	subject := s.Subject(event.Action)
	if err := s.pub.Publish(subject, payload); err != nil {
		return errors.Wrapf(err, "publish %s", subject)
	}
	return nil
}
