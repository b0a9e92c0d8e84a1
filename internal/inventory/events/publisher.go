package events

import (
	"context"

	"github.com/pharmtrack/pharmtrack-backend/pkg/logger"
	"github.com/pharmtrack/pharmtrack-backend/pkg/messaging"
)

// Publisher is implemented by pkg/messaging.Publisher
type Publisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// InventoryEvents publishes inventory domain events. A nil underlying
// publisher turns it into a no-op, which keeps the service usable when
// RabbitMQ is not configured. Publish failures are logged, never returned:
// an event that could not be sent must not fail the operation it describes.
type InventoryEvents struct {
	publisher Publisher
	logger    *logger.Logger
}

// New creates the inventory event emitter. publisher may be nil.
func New(publisher Publisher, log *logger.Logger) *InventoryEvents {
	return &InventoryEvents{
		publisher: publisher,
		logger:    log.WithComponent("events"),
	}
}

func (e *InventoryEvents) emit(ctx context.Context, eventType string, data interface{}) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, eventType, data); err != nil {
		e.logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish event")
	}
}

// StockAdjusted announces a stock level change
func (e *InventoryEvents) StockAdjusted(ctx context.Context, data messaging.StockAdjustedEvent) {
	e.emit(ctx, messaging.EventStockAdjusted, data)
}

// AlertGenerated announces a low-stock or expiry alert
func (e *InventoryEvents) AlertGenerated(ctx context.Context, data messaging.AlertGeneratedEvent) {
	e.emit(ctx, messaging.EventAlertGenerated, data)
}

// MedicineAdded announces a newly registered medicine
func (e *InventoryEvents) MedicineAdded(ctx context.Context, data messaging.MedicineEvent) {
	e.emit(ctx, messaging.EventMedicineAdded, data)
}

// MedicineRemoved announces a deleted medicine
func (e *InventoryEvents) MedicineRemoved(ctx context.Context, data messaging.MedicineEvent) {
	e.emit(ctx, messaging.EventMedicineRemoved, data)
}
