package services

import (
	"context"
	"fmt"

	"campusevents/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendRegistrationConfirmation sends the registration confirmation email
// using the "registration_confirmation" template.
func (s *emailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("registration email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("registration_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render registration_confirmation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send registration confirmation: %w", err)
	}
	return nil
}

// SendPaymentReceipt sends the payment receipt email using the
// "payment_receipt" template.
func (s *emailService) SendPaymentReceipt(ctx context.Context, data *domain.PaymentReceiptEmailData) error {
	if data == nil {
		return fmt.Errorf("payment receipt data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("payment_receipt", data)
	if err != nil {
		return fmt.Errorf("failed to render payment_receipt template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send payment receipt: %w", err)
	}
	return nil
}
