package discounts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"goflare.io/discounts/models"
)

// SubjectOrderCreated is the event bus subject announcing a placed order.
const SubjectOrderCreated = "order.created"

// OrderCreatedEvent is the payload published on SubjectOrderCreated.
type OrderCreatedEvent struct {
	Order models.Order `json:"order"`
}

// EventManager bridges the NATS event bus and the order worker pool.
type EventManager struct {
	natsConn *nats.Conn
	logger   *zap.Logger
}

func NewEventManager(natsConn *nats.Conn, logger *zap.Logger) *EventManager {
	return &EventManager{
		natsConn: natsConn,
		logger:   logger,
	}
}

func (em *EventManager) PublishOrderCreated(order *models.Order) error {
	data, err := json.Marshal(OrderCreatedEvent{Order: *order})
	if err != nil {
		return fmt.Errorf("failed to marshal order created event: %w", err)
	}

	return em.natsConn.Publish(SubjectOrderCreated, data)
}

// SubscribeToOrders feeds every order-created event into the worker pool.
// Undecodable payloads are logged and dropped.
func (em *EventManager) SubscribeToOrders(d *Dispatcher) error {
	_, err := em.natsConn.Subscribe(SubjectOrderCreated, func(msg *nats.Msg) {
		var event OrderCreatedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			em.logger.Error("failed to unmarshal order created event", zap.Error(err))
			return
		}

		d.Submit(context.Background(), &event.Order)
	})

	return err
}
