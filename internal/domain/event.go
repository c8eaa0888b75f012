package domain

import (
	"context"
	"fmt"
	"time"
)

// EventStatus is the publication state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
)

// ParseEventStatus maps a string to an EventStatus.
func ParseEventStatus(s string) (EventStatus, error) {
	switch EventStatus(s) {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled:
		return EventStatus(s), nil
	default:
		return "", fmt.Errorf("unknown event status %q", s)
	}
}

// Event represents a campus event. The registration workflow reads events but
// never mutates them.
// swagger:model Event
type Event struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Category        string      `json:"category,omitempty"`
	Date            time.Time   `json:"date"`
	Time            string      `json:"time,omitempty"`
	Location        string      `json:"location,omitempty"`
	Venue           string      `json:"venue,omitempty"`
	Description     string      `json:"description,omitempty"`
	Capacity        *int        `json:"capacity,omitempty"`
	ImageURL        string      `json:"image_url,omitempty"`
	PaymentRequired bool        `json:"paymentRequired"`
	Fee             float64     `json:"fee"`
	Status          EventStatus `json:"status"`
	CreatedBy       string      `json:"created_by"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Payable reports whether the event's fee configuration is valid for payment.
// Re-checked at registration, order creation, and verification time; the fee
// configured at event creation is never trusted to still be valid.
func (e *Event) Payable() bool {
	return e.PaymentRequired && e.Fee > 0
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListPublished(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventService defines admin event management and the public catalog read.
type EventService interface {
	Create(ctx context.Context, event *Event) (*Event, error)
	Update(ctx context.Context, event *Event) (*Event, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListPublished(ctx context.Context) ([]*Event, error)
}
