package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusevents/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, title, category, event_date, event_time, location, venue, description,
		capacity, image_url, payment_required, fee, status, created_by, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (title, category, event_date, event_time, location, venue, description,
			capacity, image_url, payment_required, fee, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		event.Title, event.Category, event.Date, event.Time, event.Location, event.Venue,
		event.Description, event.Capacity, nullString(event.ImageURL), event.PaymentRequired,
		event.Fee, string(event.Status), event.CreatedBy, event.CreatedAt, event.UpdatedAt,
	).Scan(&event.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) ListPublished(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = $1 ORDER BY event_date ASC`
	rows, err := r.DB.QueryContext(ctx, query, string(domain.EventStatusPublished))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, category = $2, event_date = $3, event_time = $4, location = $5,
			venue = $6, description = $7, capacity = $8, image_url = $9,
			payment_required = $10, fee = $11, status = $12, updated_at = $13
		WHERE id = $14
	`
	res, err := r.DB.ExecContext(ctx, query,
		event.Title, event.Category, event.Date, event.Time, event.Location, event.Venue,
		event.Description, event.Capacity, nullString(event.ImageURL), event.PaymentRequired,
		event.Fee, string(event.Status), event.UpdatedAt, event.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	event := &domain.Event{}
	var category, eventTime, location, venue, description, imageURL sql.NullString
	var capacity sql.NullInt64
	var status string
	err := row.Scan(
		&event.ID, &event.Title, &category, &event.Date, &eventTime, &location, &venue,
		&description, &capacity, &imageURL, &event.PaymentRequired, &event.Fee,
		&status, &event.CreatedBy, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	event.Category = category.String
	event.Time = eventTime.String
	event.Location = location.String
	event.Venue = venue.String
	event.Description = description.String
	event.ImageURL = imageURL.String
	if capacity.Valid {
		c := int(capacity.Int64)
		event.Capacity = &c
	}
	event.Status = domain.EventStatus(status)
	return event, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
