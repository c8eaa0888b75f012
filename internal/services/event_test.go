package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusevents/internal/domain"
)

func validDraftEvent() *domain.Event {
	return &domain.Event{
		Title: "Robotics Workshop",
		Date:  time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		Venue: "Lab 2",
	}
}

func TestEventCreate_DefaultsToDraft(t *testing.T) {
	svc := NewEventService(&mockEventRepository{events: map[string]*domain.Event{}})

	event, err := svc.Create(context.Background(), validDraftEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Status != domain.EventStatusDraft {
		t.Errorf("expected status draft, got %q", event.Status)
	}
	if event.CreatedAt.IsZero() || event.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestEventCreate_Validation(t *testing.T) {
	svc := NewEventService(&mockEventRepository{events: map[string]*domain.Event{}})
	ctx := context.Background()

	badCapacity := 0
	cases := []struct {
		name   string
		mutate func(*domain.Event)
	}{
		{"empty title", func(e *domain.Event) { e.Title = "  " }},
		{"zero date", func(e *domain.Event) { e.Date = time.Time{} }},
		{"negative fee", func(e *domain.Event) { e.Fee = -10 }},
		{"payment required without fee", func(e *domain.Event) { e.PaymentRequired = true; e.Fee = 0 }},
		{"non-positive capacity", func(e *domain.Event) { e.Capacity = &badCapacity }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event := validDraftEvent()
			tc.mutate(event)
			if _, err := svc.Create(ctx, event); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestEventUpdate_PreservesProvenance(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := validDraftEvent()
	existing.ID = "e1"
	existing.CreatedBy = "admin-1"
	existing.CreatedAt = created
	svc := NewEventService(&mockEventRepository{events: map[string]*domain.Event{"e1": existing}})

	update := validDraftEvent()
	update.ID = "e1"
	update.Title = "Robotics Workshop v2"
	update.CreatedBy = "attacker"

	event, err := svc.Update(context.Background(), update)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.CreatedBy != "admin-1" {
		t.Errorf("expected CreatedBy preserved, got %q", event.CreatedBy)
	}
	if !event.CreatedAt.Equal(created) {
		t.Errorf("expected CreatedAt preserved, got %v", event.CreatedAt)
	}
}

func TestEventUpdate_NotFound(t *testing.T) {
	svc := NewEventService(&mockEventRepository{events: map[string]*domain.Event{}})

	missing := validDraftEvent()
	missing.ID = "missing"
	if _, err := svc.Update(context.Background(), missing); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}
