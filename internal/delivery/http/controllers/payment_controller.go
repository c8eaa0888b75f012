package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

type PaymentController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewPaymentController(logger *slog.Logger, svc domain.RegistrationService) *PaymentController {
	return &PaymentController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateOrderRequest is the request body for POST /payments/order.
type CreateOrderRequest struct {
	EventID string `json:"eventId"`
}

// Validate implements helpers.Validator.
func (c CreateOrderRequest) Validate() []string {
	if c.EventID == "" {
		return []string{"eventId is required"}
	}
	if !uuidRegex.MatchString(c.EventID) {
		return []string{"invalid eventId"}
	}
	return nil
}

// CreateOrder godoc
// @Summary Create a payment order for a fee-bearing event
// @Description Creates a provider-side order for the event's fee (converted to minor currency units) and returns it with the checkout key. Writes nothing; safe to retry after abandoned checkouts.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateOrderRequest true "Event id"
// @Success 200 {object} helpers.APIResponse "data contains order and key"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (event not payable)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: provider_error"
// @Router /payments/order [post]
func (c *PaymentController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}

	checkout, err := c.Service.CreatePaymentOrder(r.Context(), identity.UserID, req.EventID)
	if err != nil {
		c.writePaymentError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, checkout)
}

// VerifyPaymentRequest is the request body for POST /payments/verify.
type VerifyPaymentRequest struct {
	OrderID   string                 `json:"orderId"`
	PaymentID string                 `json:"paymentId"`
	Signature string                 `json:"signature"`
	EventID   string                 `json:"eventId"`
	Student   StudentSnapshotRequest `json:"student"`
}

// Validate implements helpers.Validator.
func (v VerifyPaymentRequest) Validate() []string {
	var errs []string
	if v.OrderID == "" {
		errs = append(errs, "orderId is required")
	}
	if v.PaymentID == "" {
		errs = append(errs, "paymentId is required")
	}
	if v.Signature == "" {
		errs = append(errs, "signature is required")
	}
	if v.EventID == "" {
		errs = append(errs, "eventId is required")
	} else if !uuidRegex.MatchString(v.EventID) {
		errs = append(errs, "invalid eventId")
	}
	return errs
}

// Verify godoc
// @Summary Verify a completed payment
// @Description Checks the provider signature over orderId|paymentId and marks the registration paid, creating it if the student skipped the registration step. Idempotent for the same valid proof.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VerifyPaymentRequest true "Payment proof"
// @Success 200 {object} helpers.APIResponse "data contains the paid registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (missing fields or invalid payment signature)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/verify [post]
func (c *PaymentController) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, err := c.Service.VerifyPayment(r.Context(), identity.UserID, domain.PaymentProof{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		EventID:   req.EventID,
		Snapshot:  req.Student.toDomain(),
	})
	if err != nil {
		c.writePaymentError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reg)
}

func (c *PaymentController) writePaymentError(w http.ResponseWriter, r *http.Request, err error) {
	var providerErr *domain.ProviderError
	switch {
	case errors.Is(err, domain.ErrSignatureMismatch):
		// Deliberately uninformative; never reveal the expected signature.
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid payment signature")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing payment fields")
	case errors.Is(err, domain.ErrEventNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrPaymentNotConfigured):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "event is not configured for payment")
	case errors.As(err, &providerErr):
		c.Logger.ErrorContext(r.Context(), "payment provider failure", "path", r.URL.Path, "err", err)
		h.WriteJSONError(w, http.StatusBadGateway, h.ErrCodeProviderError, "payment provider unavailable")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}
