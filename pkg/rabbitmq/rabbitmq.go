package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	DefaultExchange   = "printshop.events"
	DefaultOrderQueue = "order_queue"
	DefaultStockQueue = "stock_queue"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	log     *zap.Logger
	mu      sync.Mutex // guards channel publishes
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL        string
	Exchange   string
	OrderQueue string
	StockQueue string
}

func (c *Config) applyDefaults() {
	if c.Exchange == "" {
		c.Exchange = DefaultExchange
	}
	if c.OrderQueue == "" {
		c.OrderQueue = DefaultOrderQueue
	}
	if c.StockQueue == "" {
		c.StockQueue = DefaultStockQueue
	}
}

// NewClient connects to RabbitMQ, opens a channel and declares the topic
// exchange with the order and stock queues bound to it.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	cfg.applyDefaults()

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("RabbitMQ client connected",
		zap.String("exchange", cfg.Exchange),
		zap.String("order_queue", cfg.OrderQueue),
		zap.String("stock_queue", cfg.StockQueue))

	return &Client{
		conn:    conn,
		channel: ch,
		cfg:     cfg,
		log:     log,
	}, nil
}

func declareTopology(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	bindings := map[string]string{
		cfg.OrderQueue: "order.#",
		cfg.StockQueue: "stock.#",
	}
	for queue, pattern := range bindings {
		if _, err := ch.QueueDeclare(
			queue, // name
			true,  // durable (persists messages across broker restarts)
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		); err != nil {
			return fmt.Errorf("failed to declare %s: %w", queue, err)
		}
		if err := ch.QueueBind(queue, pattern, cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", queue, pattern, err)
		}
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends body to the exchange with the given routing key as a
// persistent JSON message.
func (c *Client) Publish(routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	err := c.channel.Publish(
		c.cfg.Exchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	c.log.Debug("published event", zap.String("routing_key", routingKey), zap.Int("bytes", len(body)))
	return nil
}

// PublishJSON marshals v and publishes it with the given routing key.
func (c *Client) PublishJSON(routingKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}
	return c.Publish(routingKey, body)
}

// ConsumeOrderEvents delivers messages from the order queue to handler in a
// background goroutine. Messages are acked when handler returns nil and
// rejected without requeue otherwise, so a poison message cannot loop.
func (c *Client) ConsumeOrderEvents(handler func(msg amqp.Delivery) error) error {
	return c.consume(c.cfg.OrderQueue, handler)
}

// ConsumeStockEvents is ConsumeOrderEvents for the stock queue.
func (c *Client) ConsumeStockEvents(handler func(msg amqp.Delivery) error) error {
	return c.consume(c.cfg.StockQueue, handler)
}

func (c *Client) consume(queue string, handler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		queue, // queue
		"",    // consumer tag
		false, // auto-ack: messages are acknowledged manually
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer on %s: %w", queue, err)
	}

	c.log.Info("waiting for events", zap.String("queue", queue))

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				c.log.Warn("error processing message",
					zap.String("queue", queue),
					zap.Uint64("delivery_tag", msg.DeliveryTag),
					zap.Error(err))
				if nackErr := msg.Nack(false, false); nackErr != nil {
					c.log.Error("error nacking message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.log.Error("error acking message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
			}
		}
		c.log.Info("consumer stopped", zap.String("queue", queue))
	}()

	return nil
}
