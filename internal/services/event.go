package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/domain"
)

type eventService struct {
	eventRepo domain.EventRepository
}

// NewEventService creates an EventService over the given repository.
func NewEventService(eventRepo domain.EventRepository) domain.EventService {
	return &eventService{eventRepo: eventRepo}
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	if event.Status == "" {
		event.Status = domain.EventStatusDraft
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	current, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	event.CreatedBy = current.CreatedBy
	event.CreatedAt = current.CreatedAt
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListPublished(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func validateEvent(event *domain.Event) error {
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if event.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if event.Fee < 0 {
		return fmt.Errorf("%w: fee must not be negative", domain.ErrInvalidInput)
	}
	if event.PaymentRequired && event.Fee <= 0 {
		return fmt.Errorf("%w: fee must be positive when payment is required", domain.ErrInvalidInput)
	}
	if event.Capacity != nil && *event.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	return nil
}
