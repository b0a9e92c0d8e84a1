package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventStockAdjusted  = "inventory.stock.adjusted"
	EventAlertGenerated = "inventory.alert.generated"
	EventMedicineAdded  = "inventory.medicine.added"
	EventMedicineRemoved = "inventory.medicine.removed"
)

// Exchange names
const (
	ExchangeInventoryEvents = "inventory.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
		Data:          payload,
	}, nil
}

// StockAdjustedEvent is published when a medicine's stock level changes
type StockAdjustedEvent struct {
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
	OldStock   int    `json:"old_stock"`
	NewStock   int    `json:"new_stock"`
	Reason     string `json:"reason"`
}

// AlertGeneratedEvent is published when a low-stock or expiry alert is raised
type AlertGeneratedEvent struct {
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
	AlertType  string `json:"alert_type"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Priority   int    `json:"priority"`
}

// MedicineEvent is published when a medicine is added or removed
type MedicineEvent struct {
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
	Category   string `json:"category,omitempty"`
}
