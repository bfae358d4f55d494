package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-service/internal/domain"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// Delivery-layer retry policy: 3 attempts spaced 5 seconds apart,
	// invisible to the publishing caller.
	publishAttempts      = 3
	publishRetryInterval = 5 * time.Second
)

// RabbitMQBus publishes domain events to RabbitMQ. Each event variant goes to
// its own fanout exchange (see Destination); the log consumer binds a single
// queue to all of them.
type RabbitMQBus struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
}

// NewRabbitMQBus connects to the broker and declares the catalog exchanges.
func NewRabbitMQBus(url string, logger *zap.Logger) (*RabbitMQBus, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, exchange := range Destinations() {
		if err := channel.ExchangeDeclare(
			exchange,
			amqp.ExchangeFanout,
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
		}
	}

	return &RabbitMQBus{
		conn:    conn,
		channel: channel,
		logger:  logger,
	}, nil
}

// Publish sends one event to its destination exchange, retrying transient
// send failures before giving up.
func (b *RabbitMQBus) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}

	destination := Destination(event.Type)
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(publishRetryInterval), publishAttempts-1),
		ctx,
	)

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		publishErr := b.channel.PublishWithContext(ctx,
			destination,
			"",    // routing key (fanout)
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType: "application/json",
				MessageId:   event.ID.String(),
				Timestamp:   event.OccurredOn,
				Type:        string(event.Type),
				Body:        body,
			},
		)
		if publishErr != nil {
			b.logger.Warn("Publish attempt failed",
				zap.String("event_type", string(event.Type)),
				zap.String("destination", destination),
				zap.Int("attempt", attempt),
				zap.Error(publishErr),
			)
		}
		return publishErr
	}, policy)
	if err != nil {
		return fmt.Errorf("failed to publish event %s to %s: %w", event.Type, destination, err)
	}

	b.logger.Info("Event published",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", string(event.Type)),
		zap.String("destination", destination),
	)
	return nil
}

// Close tears down the channel and connection.
func (b *RabbitMQBus) Close() error {
	if err := b.channel.Close(); err != nil {
		b.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if err := b.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}
