// Package messaging consumes audit events from Kafka and dispatches them
// to registered handlers by message type.
package messaging

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"

	"chronicle/internal/logger"
)

// Handler processes the payload of one delivered message. Returning an
// error withholds the offset commit so the broker redelivers the message
// according to its policy.
type Handler interface {
	Handle(ctx context.Context, payload json.RawMessage) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

func (f HandlerFunc) Handle(ctx context.Context, payload json.RawMessage) error {
	return f(ctx, payload)
}

// Envelope is the wire shape of a consumed message: a type selecting the
// handler and an opaque payload the handler decodes.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Config holds the consumer connection settings.
type Config struct {
	Broker  string
	Topic   string
	GroupID string
}

// Subscriber reads one topic through a consumer group and dispatches each
// message to the handler registered for its type.
type Subscriber struct {
	reader   *kafka.Reader
	handlers map[string]Handler
}

// NewSubscriber creates a subscriber for the configured topic. Handlers
// must be registered before Listen is called.
func NewSubscriber(cfg Config) *Subscriber {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Broker},
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	return &Subscriber{
		reader:   reader,
		handlers: make(map[string]Handler),
	}
}

// RegisterHandler registers a handler for a message type. Not safe to call
// concurrently with Listen.
func (s *Subscriber) RegisterHandler(messageType string, handler Handler) {
	s.handlers[messageType] = handler
	logger.Get().Infow("registered message handler", "type", messageType)
}

// Listen fetches and dispatches messages until the context is canceled.
// Offsets are committed only for acknowledged messages.
func (s *Subscriber) Listen(ctx context.Context) error {
	log := logger.Get()
	log.Infow("listening for messages", "topic", s.reader.Config().Topic, "group", s.reader.Config().GroupID)

	for {
		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		if !s.dispatch(ctx, msg) {
			// Leave the offset uncommitted; redelivery follows broker policy.
			continue
		}

		if err := s.reader.CommitMessages(ctx, msg); err != nil {
			log.Errorw("failed to commit message", "error", err, "offset", msg.Offset)
		}
	}
}

// dispatch handles one message and reports whether it should be
// acknowledged. Malformed messages and handler failures are not
// acknowledged; messages without a registered handler are logged and
// acknowledged so they do not loop forever.
func (s *Subscriber) dispatch(ctx context.Context, msg kafka.Message) bool {
	log := logger.Get()

	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		log.Errorw("failed to decode message envelope", "error", err, "offset", msg.Offset)
		return false
	}

	handler, ok := s.handlers[env.Type]
	if !ok {
		log.Warnw("no handler for message type", "type", env.Type, "offset", msg.Offset)
		return true
	}

	if err := handler.Handle(ctx, env.Payload); err != nil {
		log.Errorw("message handler failed", "type", env.Type, "error", err, "offset", msg.Offset)
		return false
	}
	return true
}

// Close shuts the underlying reader down.
func (s *Subscriber) Close() error {
	return s.reader.Close()
}
