package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"livesell/internal/sales"
)

// Publisher broadcasts sale-completed events to the fanout exchange.
// It satisfies checkout.Broadcaster.
type Publisher struct {
	pool     *ChannelPool
	exchange string
	logger   *zap.Logger
}

func NewPublisher(pool *ChannelPool, exchange string, logger *zap.Logger) *Publisher {
	return &Publisher{pool: pool, exchange: exchange, logger: logger}
}

// SaleCompleted publishes the event. Fire and forget from the caller's
// point of view: checkout logs a failure here and moves on.
func (p *Publisher) SaleCompleted(sale *sales.Sale) error {
	event := SaleCompletedEvent{
		SaleID:        sale.SaleID,
		InvoiceNumber: sale.InvoiceNumber,
		Items:         make([]ItemQuantity, 0, len(sale.Items)),
	}
	seen := make(map[string]int)
	for _, line := range sale.Items {
		seen[line.ItemID] += line.Quantity
	}
	for itemID, qty := range seen {
		event.Items = append(event.Items, ItemQuantity{ItemID: itemID, Quantity: qty})
	}

	ch, err := p.pool.GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel from pool: %w", err)
	}
	defer p.pool.ReturnChannel(ch)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		p.exchange, // exchange
		"",         // routing key (fanout ignores it)
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish sale-completed event: %w", err)
	}

	p.logger.Info("broadcast sale completed",
		zap.String("sale_id", sale.SaleID),
		zap.Int("items", len(event.Items)))
	return nil
}
