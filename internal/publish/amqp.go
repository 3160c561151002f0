package publish

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/star/issview/internal/metrics"
)

var _ Publisher = (*AMQP)(nil)

// AMQPConfig holds broker settings.
type AMQPConfig struct {
	URL      string
	Exchange string
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQP publishes fixes to a durable fanout exchange.
type AMQP struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
	logger   *slog.Logger
}

// NewAMQP dials the broker and declares the exchange.
func NewAMQP(cfg AMQPConfig, logger *slog.Logger) (*AMQP, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "fanout", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	logger.Info("connected to rabbitmq", "exchange", cfg.Exchange)
	p := newAMQP(ch, cfg.Exchange, logger)
	p.conn = conn
	return p, nil
}

func newAMQP(ch amqpChannel, exchange string, logger *slog.Logger) *AMQP {
	return &AMQP{
		ch:       ch,
		exchange: exchange,
		logger:   logger.With("component", "publish", "backend", "amqp"),
	}
}

// Publish sends fix to the exchange.
func (a *AMQP) Publish(ctx context.Context, fix Fix) (err error) {
	defer func() { metrics.RecordPublish("amqp", err) }()

	body, err := Encode(fix)
	if err != nil {
		return err
	}

	err = a.ch.PublishWithContext(ctx, a.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/geo+json",
		Timestamp:   fix.Timestamp,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish to %s: %w", a.exchange, err)
	}

	a.logger.Debug("published fix", "exchange", a.exchange, "bytes", len(body))
	return nil
}

// Close closes the channel and the connection.
func (a *AMQP) Close() error {
	if err := a.ch.Close(); err != nil {
		return fmt.Errorf("close channel: %w", err)
	}
	if a.conn != nil {
		return a.conn.Close()
	}
	return nil
}
