package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"campusevents/internal/domain"
)

const orderCurrency = "INR"

type registrationService struct {
	eventRepo domain.EventRepository
	regRepo   domain.RegistrationRepository
	gateway   domain.PaymentGateway
	email     domain.EmailService
	logger    *slog.Logger
	now       func() time.Time
}

// NewRegistrationService creates the registration-and-payment workflow
// service. email may be nil; confirmation mail is best-effort either way.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	regRepo domain.RegistrationRepository,
	gateway domain.PaymentGateway,
	email domain.EmailService,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		eventRepo: eventRepo,
		regRepo:   regRepo,
		gateway:   gateway,
		email:     email,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *registrationService) RegisterForEvent(ctx context.Context, studentID, eventID string, snapshot domain.StudentSnapshot) (*domain.Registration, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if _, err := s.regRepo.GetByEventAndStudent(ctx, eventID, studentID); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrRegistrationNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	// Fee terms come from the event row, never from the client. A paid event
	// always starts pending; "paid" is only reachable through VerifyPayment
	// or the admin cash path.
	fees := 0.0
	status := domain.PaymentStatusNone
	if event.PaymentRequired {
		if event.Fee <= 0 {
			return nil, domain.ErrPaymentNotConfigured
		}
		fees = event.Fee
		status = domain.PaymentStatusPending
	}

	reg := &domain.Registration{
		EventID:         eventID,
		StudentID:       studentID,
		StudentSnapshot: snapshot,
		EventFees:       fees,
		PaymentStatus:   status,
		PaymentMethod:   domain.PaymentMethodNone,
		RegisteredAt:    s.now(),
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		// The unique index resolves the register/register race; the loser
		// gets the same conflict as the existence check above.
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.sendRegistrationConfirmation(ctx, reg, event)
	return reg, nil
}

func (s *registrationService) CreatePaymentOrder(ctx context.Context, studentID, eventID string) (*domain.CheckoutOrder, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.Payable() {
		return nil, domain.ErrPaymentNotConfigured
	}

	amount := int64(math.Round(event.Fee * 100))
	receipt := newReceipt(eventID, studentID, s.now())
	notes := map[string]string{
		"event_id":   event.ID,
		"student_id": studentID,
		"title":      event.Title,
	}

	// No ledger write here. An abandoned order never becomes a registration
	// and the student may retry freely.
	order, err := s.gateway.CreateOrder(ctx, amount, orderCurrency, receipt, notes)
	if err != nil {
		return nil, err
	}
	return &domain.CheckoutOrder{Order: order, KeyID: s.gateway.KeyID()}, nil
}

func (s *registrationService) VerifyPayment(ctx context.Context, studentID string, proof domain.PaymentProof) (*domain.Registration, error) {
	if proof.OrderID == "" || proof.PaymentID == "" || proof.Signature == "" || proof.EventID == "" {
		return nil, domain.ErrInvalidInput
	}

	// The signature check is the sole trust anchor; nothing below substitutes
	// for it.
	if !s.gateway.VerifySignature(proof.OrderID, proof.PaymentID, proof.Signature) {
		return nil, domain.ErrSignatureMismatch
	}

	event, err := s.eventRepo.GetByID(ctx, proof.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.Payable() {
		return nil, domain.ErrPaymentNotConfigured
	}

	reg, err := s.upsertPaidRegistration(ctx, studentID, event, proof.Snapshot)
	if err != nil {
		return nil, err
	}

	s.sendPaymentReceipt(ctx, reg, event, proof)
	return reg, nil
}

// upsertPaidRegistration marks the (student, event) registration paid,
// creating it when the student went straight from order creation to
// verification. Re-running with the same proof converges to the same row.
func (s *registrationService) upsertPaidRegistration(ctx context.Context, studentID string, event *domain.Event, snapshot domain.StudentSnapshot) (*domain.Registration, error) {
	reg, err := s.regRepo.GetByEventAndStudent(ctx, event.ID, studentID)
	switch {
	case err == nil:
		reg.PaymentStatus = domain.PaymentStatusPaid
		reg.PaymentMethod = domain.PaymentMethodOnline
		reg.EventFees = event.Fee
		reg.StudentSnapshot.Merge(snapshot)
		if err := s.regRepo.Update(ctx, reg); err != nil {
			return nil, fmt.Errorf("update registration: %w", err)
		}
		return reg, nil
	case errors.Is(err, domain.ErrRegistrationNotFound):
		reg = &domain.Registration{
			EventID:         event.ID,
			StudentID:       studentID,
			StudentSnapshot: snapshot,
			EventFees:       event.Fee,
			PaymentStatus:   domain.PaymentStatusPaid,
			PaymentMethod:   domain.PaymentMethodOnline,
			RegisteredAt:    s.now(),
		}
		createErr := s.regRepo.Create(ctx, reg)
		if createErr == nil {
			return reg, nil
		}
		if errors.Is(createErr, domain.ErrAlreadyRegistered) {
			// Lost a race with a concurrent registration or verification;
			// converge on the stored row.
			existing, getErr := s.regRepo.GetByEventAndStudent(ctx, event.ID, studentID)
			if getErr != nil {
				return nil, fmt.Errorf("get registration after conflict: %w", getErr)
			}
			existing.PaymentStatus = domain.PaymentStatusPaid
			existing.PaymentMethod = domain.PaymentMethodOnline
			existing.EventFees = event.Fee
			existing.StudentSnapshot.Merge(snapshot)
			if err := s.regRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("update registration: %w", err)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("create registration: %w", createErr)
	default:
		return nil, fmt.Errorf("get registration: %w", err)
	}
}

func (s *registrationService) ListMyRegistrations(ctx context.Context, studentID string) ([]*domain.RegistrationWithEvent, error) {
	views, err := s.regRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return views, nil
}

func (s *registrationService) ListAllRegistrations(ctx context.Context, p domain.PaginationParams) ([]*domain.RegistrationWithEvent, int, error) {
	views, total, err := s.regRepo.ListAll(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return views, total, nil
}

func (s *registrationService) UpdatePaymentFields(ctx context.Context, registrationID string, patch domain.PaymentPatch) (*domain.Registration, error) {
	if patch.PaymentStatus == nil && patch.PaymentMethod == nil {
		return nil, domain.ErrInvalidInput
	}
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if patch.PaymentStatus != nil {
		reg.PaymentStatus = *patch.PaymentStatus
	}
	if patch.PaymentMethod != nil {
		reg.PaymentMethod = *patch.PaymentMethod
	}
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}
	return reg, nil
}

// newReceipt builds a provider receipt token unique per (event, student,
// creation time). IDs are truncated to stay within the provider's 40
// character receipt limit; full identity travels in the order notes.
func newReceipt(eventID, studentID string, now time.Time) string {
	return fmt.Sprintf("reg_%.8s%.8s_%d", eventID, studentID, now.Unix())
}

func (s *registrationService) sendRegistrationConfirmation(ctx context.Context, reg *domain.Registration, event *domain.Event) {
	if s.email == nil || reg.Email == "" {
		return
	}
	data := &domain.RegistrationEmailData{
		Email:         reg.Email,
		Name:          reg.Name,
		EventTitle:    event.Title,
		EventDate:     event.Date.Format("2 Jan 2006"),
		Venue:         event.Venue,
		PaymentStatus: reg.PaymentStatus,
		EventFees:     reg.EventFees,
	}
	if err := s.email.SendRegistrationConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "registration confirmation email failed", "registration_id", reg.ID, "err", err)
	}
}

func (s *registrationService) sendPaymentReceipt(ctx context.Context, reg *domain.Registration, event *domain.Event, proof domain.PaymentProof) {
	if s.email == nil || reg.Email == "" {
		return
	}
	data := &domain.PaymentReceiptEmailData{
		Email:      reg.Email,
		Name:       reg.Name,
		EventTitle: event.Title,
		Amount:     reg.EventFees,
		Currency:   orderCurrency,
		PaymentID:  proof.PaymentID,
		OrderID:    proof.OrderID,
	}
	if err := s.email.SendPaymentReceipt(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "payment receipt email failed", "registration_id", reg.ID, "err", err)
	}
}
