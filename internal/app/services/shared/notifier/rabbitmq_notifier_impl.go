package notifier

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"mediline-service/internal/app/contracts"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/exceptions"
)

type rabbitMQNotifier struct {
	ch        *amqp.Channel
	queueName string
	log       *zap.Logger
	confirms  chan amqp.Confirmation
	mu        sync.Mutex
}

// NewRabbitMQNotifier declares the durable notification queue and enables
// publisher confirms so a returned nil really means the broker has the event.
func NewRabbitMQNotifier(conn *amqp.Connection, queueName string, logger *zap.Logger) (contracts.NotificationService, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &rabbitMQNotifier{
		ch:        ch,
		queueName: queueName,
		log:       logger,
		confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

func (s *rabbitMQNotifier) Publish(ctx context.Context, message *contracts.NotificationMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.ch.PublishWithContext(ctx,
		"",          // exchange
		s.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  constvars.MIMEApplicationJSON,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, s.queueName)
	}

	select {
	case confirmation := <-s.confirms:
		if !confirmation.Ack {
			return exceptions.ErrRabbitMQPublishMessage(
				fmt.Errorf("publish nacked by broker"), s.queueName)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), s.queueName)
	}

	s.log.Debug("rabbitMQNotifier.Publish confirmed",
		zap.String(constvars.LoggingQueueNameKey, s.queueName),
		zap.String("event", message.Event),
	)
	return nil
}
