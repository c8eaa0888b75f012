package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"campusevents/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

const registrationColumns = `id, event_id, student_id, name, email, phone, department, year,
		event_fees, payment_status, payment_method, registered_at`

// Create inserts the registration row. The registrations table carries
// UNIQUE (event_id, student_id); a violation means a concurrent registration
// won the race and is mapped to ErrAlreadyRegistered.
func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, student_id, name, email, phone, department, year,
			event_fees, payment_status, payment_method, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		reg.EventID, reg.StudentID, reg.Name, reg.Email, nullString(reg.Phone),
		nullString(reg.Department), nullString(reg.Year), reg.EventFees,
		string(reg.PaymentStatus), string(reg.PaymentMethod), reg.RegisteredAt,
	).Scan(&reg.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND student_id = $2`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, studentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	query := `
		UPDATE registrations
		SET name = $1, email = $2, phone = $3, department = $4, year = $5,
			event_fees = $6, payment_status = $7, payment_method = $8
		WHERE id = $9
	`
	res, err := r.DB.ExecContext(ctx, query,
		reg.Name, reg.Email, nullString(reg.Phone), nullString(reg.Department),
		nullString(reg.Year), reg.EventFees, string(reg.PaymentStatus),
		string(reg.PaymentMethod), reg.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

const registrationJoinColumns = `
		r.id, r.event_id, r.student_id, r.name, r.email, r.phone, r.department, r.year,
		r.event_fees, r.payment_status, r.payment_method, r.registered_at,
		e.id, e.title, e.category, e.event_date, e.event_time, e.location, e.venue, e.description,
		e.capacity, e.image_url, e.payment_required, e.fee, e.status, e.created_by, e.created_at, e.updated_at`

func (r *registrationRepository) ListByStudent(ctx context.Context, studentID string) ([]*domain.RegistrationWithEvent, error) {
	query := `
		SELECT ` + registrationJoinColumns + `
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.student_id = $1
		ORDER BY r.registered_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRegistrationViews(rows)
}

func (r *registrationRepository) ListAll(ctx context.Context, p domain.PaginationParams) ([]*domain.RegistrationWithEvent, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + registrationJoinColumns + `
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		ORDER BY r.registered_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	views, err := collectRegistrationViews(rows)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var phone, department, year sql.NullString
	var status, method string
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.StudentID, &reg.Name, &reg.Email, &phone,
		&department, &year, &reg.EventFees, &status, &method, &reg.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	reg.Phone = phone.String
	reg.Department = department.String
	reg.Year = year.String
	reg.PaymentStatus = domain.PaymentStatus(status)
	reg.PaymentMethod = domain.PaymentMethod(method)
	return reg, nil
}

func collectRegistrationViews(rows *sql.Rows) ([]*domain.RegistrationWithEvent, error) {
	views := make([]*domain.RegistrationWithEvent, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		event := &domain.Event{}
		var phone, department, year sql.NullString
		var regStatus, method string
		var category, eventTime, location, venue, description, imageURL sql.NullString
		var capacity sql.NullInt64
		var eventStatus string
		err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.StudentID, &reg.Name, &reg.Email, &phone,
			&department, &year, &reg.EventFees, &regStatus, &method, &reg.RegisteredAt,
			&event.ID, &event.Title, &category, &event.Date, &eventTime, &location, &venue,
			&description, &capacity, &imageURL, &event.PaymentRequired, &event.Fee,
			&eventStatus, &event.CreatedBy, &event.CreatedAt, &event.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		reg.Phone = phone.String
		reg.Department = department.String
		reg.Year = year.String
		reg.PaymentStatus = domain.PaymentStatus(regStatus)
		reg.PaymentMethod = domain.PaymentMethod(method)
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
		event.Status = domain.EventStatus(eventStatus)
		views = append(views, &domain.RegistrationWithEvent{Registration: reg, Event: event})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}
