package domain

import (
	"context"
	"fmt"
	"time"
)

// PaymentStatus is the payment state of a registration.
// "none" is only valid for events that did not require payment.
type PaymentStatus string

const (
	PaymentStatusNone    PaymentStatus = "none"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// ParsePaymentStatus maps a string to a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusNone, PaymentStatusPending, PaymentStatusPaid:
		return PaymentStatus(s), nil
	default:
		return "", fmt.Errorf("unknown payment status %q", s)
	}
}

// PaymentMethod records how a registration was paid.
type PaymentMethod string

const (
	PaymentMethodNone   PaymentMethod = "none"
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCash   PaymentMethod = "cash"
)

// ParsePaymentMethod maps a string to a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodNone, PaymentMethodOnline, PaymentMethodCash:
		return PaymentMethod(s), nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}

// StudentSnapshot holds the contact fields copied onto a registration at
// registration time. The snapshot does not track later profile edits.
type StudentSnapshot struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	Year       string `json:"year,omitempty"`
}

// Merge overwrites snapshot fields with any non-empty values from other.
func (s *StudentSnapshot) Merge(other StudentSnapshot) {
	if other.Name != "" {
		s.Name = other.Name
	}
	if other.Email != "" {
		s.Email = other.Email
	}
	if other.Phone != "" {
		s.Phone = other.Phone
	}
	if other.Department != "" {
		s.Department = other.Department
	}
	if other.Year != "" {
		s.Year = other.Year
	}
}

// Registration is a student's registration for one event. At most one exists
// per (student, event) pair; the registrations table enforces this with a
// unique index in addition to the service-level existence check.
// swagger:model Registration
type Registration struct {
	ID              string `json:"id"`
	EventID         string `json:"eventId"`
	StudentID       string `json:"studentId"`
	StudentSnapshot        // contact fields frozen at registration time
	EventFees       float64       `json:"eventFees"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	RegisteredAt    time.Time     `json:"registeredAt"`
}

// RegistrationWithEvent is the denormalized read-time view returned by list
// operations. The persisted row stays normalized (references only).
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// PaymentPatch is the admin-editable subset of a registration, used for
// recording cash payments. Nil fields are left unchanged.
type PaymentPatch struct {
	PaymentStatus *PaymentStatus
	PaymentMethod *PaymentMethod
}

// RegistrationRepository defines storage operations for registrations.
// It performs no business validation; Create maps a unique-index violation on
// (event_id, student_id) to ErrAlreadyRegistered as the storage-level guard
// against concurrent duplicate registration.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*Registration, error)
	Update(ctx context.Context, reg *Registration) error
	ListByStudent(ctx context.Context, studentID string) ([]*RegistrationWithEvent, error)
	ListAll(ctx context.Context, p PaginationParams) ([]*RegistrationWithEvent, int, error)
}

// CheckoutOrder is what the client needs to open the provider's checkout:
// the provider-side order plus the public key id.
type CheckoutOrder struct {
	Order *PaymentOrder `json:"order"`
	KeyID string        `json:"key"`
}

// RegistrationService is the registration-and-payment workflow.
type RegistrationService interface {
	// RegisterForEvent creates the registration row for a free or fee-bearing
	// event. Paid events always start with status "pending"; "paid" is only
	// reachable through VerifyPayment or the admin cash path.
	RegisterForEvent(ctx context.Context, studentID, eventID string, snapshot StudentSnapshot) (*Registration, error)
	// CreatePaymentOrder creates a provider order for a fee-bearing event.
	// It writes nothing; abandoned orders simply never become registrations.
	CreatePaymentOrder(ctx context.Context, studentID, eventID string) (*CheckoutOrder, error)
	// VerifyPayment checks the provider proof and upserts the paid
	// registration. Idempotent for a given valid proof.
	VerifyPayment(ctx context.Context, studentID string, proof PaymentProof) (*Registration, error)
	ListMyRegistrations(ctx context.Context, studentID string) ([]*RegistrationWithEvent, error)
	ListAllRegistrations(ctx context.Context, p PaginationParams) ([]*RegistrationWithEvent, int, error)
	// UpdatePaymentFields is the admin-only path for recording cash payments.
	UpdatePaymentFields(ctx context.Context, registrationID string, patch PaymentPatch) (*Registration, error)
}
