package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"catalog-service/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// LogConsumer subscribes the catalog-log-queue to every event destination and
// logs each received event. Messages are acknowledged only after the log
// entry is written.
type LogConsumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
}

// NewLogConsumer opens its own channel, declares the log queue and binds it
// to all catalog exchanges.
func NewLogConsumer(url string, logger *zap.Logger) (*LogConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queue, err := channel.QueueDeclare(
		LogQueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", LogQueueName, err)
	}

	for _, exchange := range Destinations() {
		if err := channel.QueueBind(queue.Name, "", exchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind %s to %s: %w", queue.Name, exchange, err)
		}
	}

	return &LogConsumer{
		conn:    conn,
		channel: channel,
		logger:  logger,
	}, nil
}

// Start consumes the queue until the context is cancelled or the channel
// closes.
func (c *LogConsumer) Start(ctx context.Context) error {
	deliveries, err := c.channel.Consume(
		LogQueueName,
		"catalog-log-consumer",
		false, // manual ack, only after logging completes
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", LogQueueName, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case delivery, ok := <-deliveries:
				if !ok {
					return
				}
				c.handle(delivery)
			}
		}
	}()

	c.logger.Info("Log consumer started", zap.String("queue", LogQueueName))
	return nil
}

func (c *LogConsumer) handle(delivery amqp.Delivery) {
	var event domain.Event
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		c.logger.Error("Failed to decode event, discarding",
			zap.String("message_id", delivery.MessageId),
			zap.Error(err),
		)
		delivery.Nack(false, false)
		return
	}

	c.logEvent(event)
	delivery.Ack(false)
}

func (c *LogConsumer) logEvent(event domain.Event) {
	fields := []zap.Field{
		zap.String("event_id", event.ID.String()),
		zap.Time("occurred_on", event.OccurredOn),
	}

	switch payload := event.Payload.(type) {
	case domain.ProductCreated:
		c.logger.Info("Event received: product created",
			append(fields,
				zap.String("name", payload.Name),
				zap.String("sku", payload.SKU),
				zap.String("price", payload.Price.StringFixed(2)),
				zap.Int("stock", payload.StockQuantity),
			)...)
	case domain.StockUpdated:
		c.logger.Info("Event received: stock updated",
			append(fields,
				zap.String("sku", payload.SKU),
				zap.Int("previous", payload.PreviousQuantity),
				zap.Int("current", payload.CurrentQuantity),
				zap.String("operation", payload.Operation),
			)...)
	case domain.PriceChanged:
		c.logger.Info("Event received: price changed",
			append(fields,
				zap.String("sku", payload.SKU),
				zap.String("previous_price", payload.PreviousPrice.StringFixed(2)),
				zap.String("new_price", payload.NewPrice.StringFixed(2)),
				zap.String("percent_change", payload.PercentChange.StringFixed(2)),
			)...)
	case domain.ProductDeactivated:
		c.logger.Info("Event received: product deactivated",
			append(fields,
				zap.String("name", payload.Name),
				zap.String("sku", payload.SKU),
				zap.String("reason", payload.Reason),
			)...)
	default:
		c.logger.Warn("Event received with unrecognized payload",
			append(fields, zap.String("event_type", string(event.Type)))...)
	}
}

// Close tears down the consumer's channel and connection.
func (c *LogConsumer) Close() error {
	if err := c.channel.Close(); err != nil {
		c.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}
