package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	errx "github.com/equine-kiosk/server/internal/core/error"
	"github.com/equine-kiosk/server/internal/order"
	"github.com/equine-kiosk/server/internal/session"
	logx "github.com/equine-kiosk/server/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

const messageType = "kiosk.order.submitted"

// AMQPPublisher sends submitted orders to the fulfillment dashboard as
// persistent JSON messages.
type AMQPPublisher struct {
	ch         Channel
	exchange   string
	routingKey string
	timeout    time.Duration
}

func NewAMQPPublisher(ch Channel, exchange, routingKey string, timeout time.Duration) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange, routingKey: routingKey, timeout: timeout}
}

func (p *AMQPPublisher) Submit(ctx context.Context, sub order.Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		logx.Error().Err(err).Str("reference", sub.Reference).Msg("failed to marshal order submission")
		return fmt.Errorf("marshal submission: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    sub.Reference,
		Type:         messageType,
		Timestamp:    sub.CreatedAt,
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg); err != nil {
		logx.Error().Err(err).Str("reference", sub.Reference).Str("exchange", p.exchange).Msg("failed to publish order")
		return errx.WrapAMQP(err)
	}

	logx.Debug().Str("reference", sub.Reference).Int("bytes", len(body)).Msg("order published")
	return nil
}

var _ session.OrderSubmitter = (*AMQPPublisher)(nil)
