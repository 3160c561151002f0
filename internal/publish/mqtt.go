package publish

import (
	"context"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/star/issview/internal/metrics"
)

var _ Publisher = (*MQTT)(nil)

// MQTTConfig holds broker settings.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
}

// MQTT publishes fixes to a single topic.
type MQTT struct {
	client mqtt.Client
	topic  string
	qos    byte
	logger *slog.Logger
}

// NewMQTT connects to the broker.
func NewMQTT(cfg MQTTConfig, logger *slog.Logger) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	logger.Info("connected to mqtt broker", "broker", cfg.Broker, "topic", cfg.Topic)
	return newMQTT(client, cfg, logger), nil
}

func newMQTT(client mqtt.Client, cfg MQTTConfig, logger *slog.Logger) *MQTT {
	return &MQTT{
		client: client,
		topic:  cfg.Topic,
		qos:    cfg.QoS,
		logger: logger.With("component", "publish", "backend", "mqtt"),
	}
}

// Publish sends fix and waits for the broker to acknowledge it.
func (m *MQTT) Publish(ctx context.Context, fix Fix) (err error) {
	defer func() { metrics.RecordPublish("mqtt", err) }()

	body, err := Encode(fix)
	if err != nil {
		return err
	}

	token := m.client.Publish(m.topic, m.qos, false, body)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish to %s: %w", m.topic, err)
	}

	m.logger.Debug("published fix", "topic", m.topic, "bytes", len(body))
	return nil
}

// Close disconnects, allowing 250ms for in-flight work.
func (m *MQTT) Close() error {
	m.client.Disconnect(250)
	return nil
}
