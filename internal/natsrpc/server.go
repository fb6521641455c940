package natsrpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"taiyaku/internal/dispatch"
	"taiyaku/internal/logging"
)

// CorrelationHeader carries the caller's correlation id, when present.
const CorrelationHeader = "Taiyaku-Correlation-Id"

// Server answers dispatcher operations on NATS subjects.
type Server struct {
	nc      *nats.Conn
	prefix  string
	routes  map[string]dispatch.Handler
	schemas schemaSet
	subs    []*nats.Subscription
	logger  *slog.Logger
}

// NewServer subscribes every operation under prefix on nc. The caller keeps
// ownership of nc.
func NewServer(nc *nats.Conn, prefix string, d *dispatch.Dispatcher, logger *slog.Logger) (*Server, error) {
	if nc == nil {
		return nil, errors.New("nats server requires a connection")
	}
	if d == nil {
		return nil, errors.New("nats server requires dispatcher")
	}
	schemas, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	s := &Server{
		nc:      nc,
		prefix:  prefix,
		routes:  d.Routes(),
		schemas: schemas,
		logger:  logging.NewComponentLogger(logger, "natsrpc"),
	}
	for _, op := range dispatch.Operations() {
		subject := Subject(prefix, op)
		sub, err := nc.Subscribe(subject, func(msg *nats.Msg) { s.handle(op, msg) })
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("subscribe %s: %w", subject, err)
		}
		s.subs = append(s.subs, sub)
	}
	if err := nc.Flush(); err != nil {
		s.Close()
		return nil, fmt.Errorf("flush subscriptions: %w", err)
	}
	s.logger.Info("NATS transport ready",
		logging.String("prefix", prefix),
		logging.String("url", nc.ConnectedUrlRedacted()))
	return s, nil
}

// Subject returns the subject an operation listens on.
func Subject(prefix, op string) string {
	return prefix + "." + op
}

func (s *Server) handle(op string, msg *nats.Msg) {
	if msg.Reply == "" {
		s.logger.Debug("ignoring request without reply subject", logging.String("subject", msg.Subject))
		return
	}
	ctx := dispatch.WithTransport(context.Background(), "nats")
	if msg.Header != nil {
		if id := msg.Header.Get(CorrelationHeader); id != "" {
			ctx = logging.WithCorrelationID(ctx, id)
		}
	}

	start := time.Now()
	reply := s.answer(ctx, op, msg.Data)
	if err := msg.Respond(reply); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "failed to publish reply", "nats_reply_failed",
			logging.Operation(op),
			logging.Error(err),
			logging.String(logging.FieldImpact, "the caller will time out"))
		return
	}
	s.logger.Debug("request answered",
		logging.Operation(op),
		logging.Duration("elapsed", time.Since(start)))
}

func (s *Server) answer(ctx context.Context, op string, payload []byte) []byte {
	if err := s.schemas.check(op, payload); err != nil {
		return failure(err)
	}
	result, err := s.routes[op](ctx, payload)
	if err != nil {
		return failure(err)
	}
	reply, err := success(result)
	if err != nil {
		return failure(err)
	}
	return reply
}

// Close removes every subscription.
func (s *Server) Close() {
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			s.logger.Debug("unsubscribe failed", logging.String("subject", sub.Subject), logging.Error(err))
		}
	}
	s.subs = nil
}
