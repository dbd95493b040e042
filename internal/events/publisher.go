package events

import (
	"encoding/json"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Publisher emits completion events to a durable RabbitMQ queue. Publishing is
// best-effort: a failure is logged by the caller and never affects delivery
// results.
type Publisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	queue  string
	logger *zap.Logger
}

type envelope struct {
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload"`
	EmittedAt time.Time   `json:"emitted_at"`
}

// Connect dials the broker and declares the queue.
func Connect(url, queueName string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, queue: queueName, logger: logger}, nil
}

func (p *Publisher) Publish(topic string, payload interface{}) error {
	body, err := json.Marshal(envelope{Event: topic, Payload: payload, EmittedAt: time.Now()})
	if err != nil {
		return err
	}
	return p.ch.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (p *Publisher) Close() {
	if err := p.ch.Close(); err != nil {
		p.logger.Warn("failed to close AMQP channel", zap.Error(err))
	}
	if err := p.conn.Close(); err != nil {
		p.logger.Warn("failed to close AMQP connection", zap.Error(err))
	}
}
