package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"campusevents/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var registrationRows = []string{
	"id", "event_id", "student_id", "name", "email", "phone", "department", "year",
	"event_fees", "payment_status", "payment_method", "registered_at",
}

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()
	registeredAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		reg     *domain.Registration
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "success",
			reg: &domain.Registration{
				EventID:   "event-uuid-1",
				StudentID: "student-uuid-1",
				StudentSnapshot: domain.StudentSnapshot{
					Name:  "Asha",
					Email: "asha@campus.edu",
					Phone: "9999999999",
				},
				EventFees:     500,
				PaymentStatus: domain.PaymentStatusPending,
				PaymentMethod: domain.PaymentMethodNone,
				RegisteredAt:  registeredAt,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WithArgs("event-uuid-1", "student-uuid-1", "Asha", "asha@campus.edu",
						sql.NullString{String: "9999999999", Valid: true},
						sql.NullString{}, sql.NullString{}, 500.0,
						"pending", "none", registeredAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-uuid-1"))
			},
			wantID: "reg-uuid-1",
		},
		{
			name: "unique violation maps to conflict",
			reg: &domain.Registration{
				EventID:       "event-uuid-1",
				StudentID:     "student-uuid-1",
				PaymentStatus: domain.PaymentStatusNone,
				PaymentMethod: domain.PaymentMethodNone,
				RegisteredAt:  registeredAt,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "registrations_event_student_key"})
			},
			wantErr: domain.ErrAlreadyRegistered,
		},
		{
			name: "db error passes through",
			reg: &domain.Registration{
				EventID:       "event-uuid-1",
				StudentID:     "student-uuid-1",
				PaymentStatus: domain.PaymentStatusNone,
				PaymentMethod: domain.PaymentMethodNone,
				RegisteredAt:  registeredAt,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			err = repo.Create(ctx, tt.reg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.reg.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_GetByEventAndStudent(t *testing.T) {
	ctx := context.Background()
	registeredAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Registration
		wantErr error
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM registrations WHERE event_id = \$1 AND student_id = \$2`).
					WithArgs("event-uuid-1", "student-uuid-1").
					WillReturnRows(sqlmock.NewRows(registrationRows).AddRow(
						"reg-uuid-1", "event-uuid-1", "student-uuid-1", "Asha", "asha@campus.edu",
						nil, nil, nil, 500.0, "paid", "online", registeredAt,
					))
			},
			want: &domain.Registration{
				ID:              "reg-uuid-1",
				EventID:         "event-uuid-1",
				StudentID:       "student-uuid-1",
				StudentSnapshot: domain.StudentSnapshot{Name: "Asha", Email: "asha@campus.edu"},
				EventFees:       500,
				PaymentStatus:   domain.PaymentStatusPaid,
				PaymentMethod:   domain.PaymentMethodOnline,
				RegisteredAt:    registeredAt,
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .+ FROM registrations WHERE event_id = \$1 AND student_id = \$2`).
					WithArgs("event-uuid-1", "student-uuid-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrRegistrationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			got, err := repo.GetByEventAndStudent(ctx, "event-uuid-1", "student-uuid-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_Update(t *testing.T) {
	ctx := context.Background()

	reg := &domain.Registration{
		ID:              "reg-uuid-1",
		EventID:         "event-uuid-1",
		StudentID:       "student-uuid-1",
		StudentSnapshot: domain.StudentSnapshot{Name: "Asha", Email: "asha@campus.edu"},
		EventFees:       500,
		PaymentStatus:   domain.PaymentStatusPaid,
		PaymentMethod:   domain.PaymentMethodOnline,
	}

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE registrations`).
			WithArgs("Asha", "asha@campus.edu", sql.NullString{}, sql.NullString{}, sql.NullString{},
				500.0, "paid", "online", "reg-uuid-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewRegistrationRepository(db)
		require.NoError(t, repo.Update(ctx, reg))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE registrations`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewRegistrationRepository(db)
		require.ErrorIs(t, repo.Update(ctx, reg), domain.ErrRegistrationNotFound)
	})
}

func TestRegistrationRepository_ListByStudent(t *testing.T) {
	ctx := context.Background()
	registeredAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	eventDate := time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	joinRows := []string{
		"r.id", "r.event_id", "r.student_id", "r.name", "r.email", "r.phone", "r.department", "r.year",
		"r.event_fees", "r.payment_status", "r.payment_method", "r.registered_at",
		"e.id", "e.title", "e.category", "e.event_date", "e.event_time", "e.location", "e.venue",
		"e.description", "e.capacity", "e.image_url", "e.payment_required", "e.fee", "e.status",
		"e.created_by", "e.created_at", "e.updated_at",
	}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM registrations r\s+JOIN events e ON e.id = r.event_id\s+WHERE r.student_id = \$1`).
		WithArgs("student-uuid-1").
		WillReturnRows(sqlmock.NewRows(joinRows).AddRow(
			"reg-uuid-1", "event-uuid-1", "student-uuid-1", "Asha", "asha@campus.edu",
			nil, nil, nil, 500.0, "paid", "online", registeredAt,
			"event-uuid-1", "Tech Fest", "technical", eventDate, "10:00", "Block A", "Main Hall",
			nil, 200, nil, true, 500.0, "published", "admin-uuid-1", createdAt, createdAt,
		))

	repo := NewRegistrationRepository(db)
	views, err := repo.ListByStudent(ctx, "student-uuid-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "reg-uuid-1", views[0].Registration.ID)
	require.Equal(t, domain.PaymentStatusPaid, views[0].Registration.PaymentStatus)
	require.Equal(t, "Tech Fest", views[0].Event.Title)
	require.NotNil(t, views[0].Event.Capacity)
	require.Equal(t, 200, *views[0].Event.Capacity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_ListAll(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM registrations`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT .+ FROM registrations r\s+JOIN events e ON e.id = r.event_id\s+ORDER BY r.registered_at DESC\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"none"}))

	repo := NewRegistrationRepository(db)
	views, total, err := repo.ListAll(ctx, domain.PaginationParams{Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Empty(t, views)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_Create_NonUniquePqError(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO registrations`).
		WillReturnError(&pq.Error{Code: "23503"})

	repo := NewRegistrationRepository(db)
	err = repo.Create(ctx, &domain.Registration{EventID: "e", StudentID: "s"})
	require.Error(t, err)
	require.False(t, errors.Is(err, domain.ErrAlreadyRegistered))
}
