package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const finishedQueueName = "event.finished"

// Publisher sends EventFinishedMessage payloads to the event.finished
// queue.  Errors are logged and returned so callers can ignore them
// without interrupting the request flow; a broken broker must never fail
// a finish call.
type Publisher struct {
	url    string
	logger zerolog.Logger
}

// NewPublisher returns a Publisher for the given broker URL, or nil when
// the URL is empty (audit queue disabled).
func NewPublisher(url string, logger zerolog.Logger) *Publisher {
	if url == "" {
		return nil
	}
	return &Publisher{url: url, logger: logger.With().Str("component", "queue").Logger()}
}

// PublishEventFinished publishes one message, declaring the durable queue
// on the way so publishing is order-independent with the consumer.
// Messages are marked persistent.
func (p *Publisher) PublishEventFinished(ctx context.Context, msg EventFinishedMessage) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Warn().Err(err).Msg("rabbitmq dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn().Err(err).Msg("rabbitmq channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		finishedQueueName, // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
	); err != nil {
		p.logger.Warn().Err(err).Msg("rabbitmq queue declare failed")
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		p.logger.Warn().Err(err).Msg("marshal event.finished message failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                // default exchange
		finishedQueueName, // routing key = queue name
		false,             // mandatory
		false,             // immediate
		pub,
	); err != nil {
		p.logger.Warn().Err(err).Msg("rabbitmq publish failed")
		return err
	}
	return nil
}
