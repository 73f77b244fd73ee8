// Package handlerwrapper adapts typed event handlers to Watermill.
//
// A handler receives a decoded payload and returns the events it wants
// published. The wrapper owns decoding, tracing, correlation and publishing.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/rock-destroyer/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Result is a single outgoing event.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// HandlerFunc is a typed event handler.
type HandlerFunc[T any] func(ctx context.Context, payload *T) ([]Result, error)

type messageIDKey struct{}

// WithMessageID stores the UUID of the message being handled.
func WithMessageID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, messageIDKey{}, id)
}

// MessageIDFromContext returns the UUID of the message being handled, or "".
// Redeliveries and router retries of one message share it.
func MessageIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(messageIDKey{}).(string)
	return id
}

// InvalidPayloadFunc builds the event published when a message cannot be decoded.
type InvalidPayloadFunc func(messageID string, err error) any

type options struct {
	invalidTopic   string
	invalidPayload InvalidPayloadFunc
}

// Option configures WrapTyped.
type Option func(*options)

// WithInvalidPayloadTopic publishes build's result on topic for every message
// whose payload fails to decode.
func WithInvalidPayloadTopic(topic string, build InvalidPayloadFunc) Option {
	return func(o *options) {
		o.invalidTopic = topic
		o.invalidPayload = build
	}
}

// NewMessage encodes payload as JSON and stamps the context correlation id.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	corrID := attr.CorrelationIDFromContext(ctx)
	if corrID == "" {
		corrID = watermill.NewUUID()
	}
	middleware.SetCorrelationID(corrID, msg)
	return msg, nil
}

// WrapTyped returns a Watermill handler that decodes T, runs handler and
// publishes every returned Result on its own topic.
//
// Payloads that fail to decode are acked since redelivery cannot fix them.
// With WithInvalidPayloadTopic the sender is told through a failure event;
// otherwise the message is only logged.
func WrapTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	publisher message.Publisher,
	handler HandlerFunc[T],
	opts ...Option,
) message.NoPublishHandlerFunc {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(handlerName)
	}

	return func(msg *message.Message) error {
		corrID := middleware.MessageCorrelationID(msg)
		ctx := attr.WithCorrelationID(msg.Context(), corrID)
		ctx = WithMessageID(ctx, msg.UUID)

		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
			attribute.String("correlation_id", corrID),
		))
		defer span.End()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Rejecting message with undecodable payload",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid payload")
			if o.invalidPayload == nil {
				return nil
			}
			return publish(ctx, logger, span, publisher, handlerName, []Result{{
				Topic:   o.invalidTopic,
				Payload: o.invalidPayload(msg.UUID, err),
			}})
		}

		out, err := handler(ctx, payload)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("%s: %w", handlerName, err)
		}

		return publish(ctx, logger, span, publisher, handlerName, out)
	}
}

func publish(ctx context.Context, logger *slog.Logger, span trace.Span, publisher message.Publisher, handlerName string, out []Result) error {
	for _, r := range out {
		outMsg, err := NewMessage(ctx, r.Payload)
		if err != nil {
			return fmt.Errorf("%s: %w", handlerName, err)
		}
		for k, v := range r.Metadata {
			outMsg.Metadata.Set(k, v)
		}
		if err := publisher.Publish(r.Topic, outMsg); err != nil {
			span.RecordError(err)
			return fmt.Errorf("%s: failed to publish to %s: %w", handlerName, r.Topic, err)
		}
		logger.DebugContext(ctx, "Published result",
			attr.ExtractCorrelationID(ctx),
			attr.String("handler", handlerName),
			attr.String("topic", r.Topic),
		)
	}
	return nil
}
