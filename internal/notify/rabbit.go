package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/joshua-takyi/devevents/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

const BookingCreatedKey = "booking.created"

// BookingMessage is the payload published for every new booking.
type BookingMessage struct {
	BookingID string    `json:"booking_id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBookingMessage(b *models.Booking) BookingMessage {
	return BookingMessage{
		BookingID: b.ID.Hex(),
		EventID:   b.EventID.Hex(),
		Email:     b.Email,
		CreatedAt: b.CreatedAt,
	}
}

// Client publishes booking events to a durable direct exchange.
type Client struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

func NewRabbit(url, exchange string, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	logger.Info("RabbitMQ initialized", "exchange", exchange)
	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (c *Client) BookingCreated(ctx context.Context, b *models.Booking) error {
	body, err := json.Marshal(NewBookingMessage(b))
	if err != nil {
		return fmt.Errorf("failed to encode booking message: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.PublishWithContext(ctx,
		c.exchange,
		BookingCreatedKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    b.ID.Hex(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish booking message: %w", err)
	}
	c.logger.Debug("Booking message published", "exchange", c.exchange, "booking_id", b.ID.Hex())
	return nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.logger.Info("RabbitMQ connection closed")
}

// Nop drops every notification. Used when RABBITMQ_URL is not configured.
type Nop struct{}

func (Nop) BookingCreated(context.Context, *models.Booking) error { return nil }
