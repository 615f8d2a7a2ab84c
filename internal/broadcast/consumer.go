package broadcast

import (
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// HandlerFunc processes one sale-completed event.
type HandlerFunc func(event SaleCompletedEvent)

// Consumer binds an exclusive queue to the fanout exchange so this view
// receives every broadcast independently of any other listener.
type Consumer struct {
	name     string
	channel  *amqp.Channel
	queue    string
	exchange string
	logger   *zap.Logger
}

func NewConsumer(conn *amqp.Connection, exchange, name string, logger *zap.Logger) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for %s: %w", name, err)
	}

	err = ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Server-named, exclusive, auto-delete: the queue lives only as long
	// as this view does, which is all a best-effort broadcast needs.
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare broadcast queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to bind broadcast queue: %w", err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &Consumer{
		name:     name,
		channel:  ch,
		queue:    q.Name,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Start consumes until the connection closes, passing each decoded event
// to the handler. Malformed messages are dropped without requeue.
func (c *Consumer) Start(wg *sync.WaitGroup, handler HandlerFunc) error {
	msgs, err := c.channel.Consume(
		c.queue, // queue
		c.name,  // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer %s: %w", c.name, err)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer c.channel.Close()

		c.logger.Info("broadcast consumer started",
			zap.String("consumer", c.name), zap.String("queue", c.queue))

		for msg := range msgs {
			var event SaleCompletedEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				c.logger.Warn("dropping malformed broadcast",
					zap.String("consumer", c.name), zap.Error(err))
				msg.Nack(false, false)
				continue
			}
			handler(event)
			if err := msg.Ack(false); err != nil {
				c.logger.Warn("failed to ack broadcast",
					zap.String("consumer", c.name), zap.Error(err))
			}
		}

		c.logger.Info("broadcast consumer stopped", zap.String("consumer", c.name))
	}()
	return nil
}
