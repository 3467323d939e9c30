package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"matchai-service/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

const RabbitMQActionHeader string = "x-action"

type RabbitMQ struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queue      string
}

func RabbitMQConnect(queue string) (*RabbitMQ, error) {
	connection, err := amqp.Dial(fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		config.Config("RABBITMQ_USER"),
		config.Config("RABBITMQ_PASSWORD"),
		config.Config("RABBITMQ_HOST"),
		config.Config("RABBITMQ_PORT"),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	slog.Info("connection opened to RabbitMQ server")

	channel, err := connection.Channel()
	if err != nil {
		connection.Close()
		return nil, fmt.Errorf("failed to open a RabbitMQ channel: %w", err)
	}

	if _, err := channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		channel.Close()
		connection.Close()
		return nil, fmt.Errorf("failed to declare RabbitMQ queue %s: %w", queue, err)
	}
	slog.Info("declared RabbitMQ queue", "queue", queue)

	return &RabbitMQ{connection: connection, channel: channel, queue: queue}, nil
}

func (r *RabbitMQ) Emit(ctx context.Context, action string, payload any) error {
	ev, err := encode(action, payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(
		ctx,
		"",      // exchange
		r.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    time.Now(),
			Headers: amqp.Table{
				RabbitMQActionHeader: ev.Action,
			},
			Body: ev.Data,
		},
	)
}

// Subscribe forwards every delivery of the queue to out until the channel
// closes. Deliveries without an action header are rejected.
func (r *RabbitMQ) Subscribe(out chan<- EventChannelData) error {
	msgs, err := r.channel.Consume(
		r.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}
	slog.Info("subscribed to RabbitMQ queue", "queue", r.queue)

	go func() {
		for msg := range msgs {
			ev, err := decodeDelivery(msg)
			if err != nil {
				slog.Warn("rejecting event", "error", err)
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
			out <- ev
		}
	}()
	return nil
}

func decodeDelivery(msg amqp.Delivery) (EventChannelData, error) {
	action, ok := msg.Headers[RabbitMQActionHeader].(string)
	if !ok || action == "" {
		return EventChannelData{}, errors.New("missing action header")
	}
	return EventChannelData{Action: action, Data: msg.Body}, nil
}

func (r *RabbitMQ) Close() {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.connection != nil {
		r.connection.Close()
	}
}
