package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// StudentSnapshotRequest carries the contact fields captured at registration time.
type StudentSnapshotRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Year       string `json:"year"`
}

func (s StudentSnapshotRequest) toDomain() domain.StudentSnapshot {
	return domain.StudentSnapshot{
		Name:       strings.TrimSpace(s.Name),
		Email:      strings.TrimSpace(strings.ToLower(s.Email)),
		Phone:      strings.TrimSpace(s.Phone),
		Department: strings.TrimSpace(s.Department),
		Year:       strings.TrimSpace(s.Year),
	}
}

// RegisterRequest is the request body for POST /registrations.
type RegisterRequest struct {
	EventID string                 `json:"eventId"`
	Student StudentSnapshotRequest `json:"student"`
}

// Validate implements helpers.Validator.
func (r RegisterRequest) Validate() []string {
	var errs []string
	if r.EventID == "" {
		errs = append(errs, "eventId is required")
	} else if !uuidRegex.MatchString(r.EventID) {
		errs = append(errs, "invalid eventId")
	}
	if strings.TrimSpace(r.Student.Name) == "" {
		errs = append(errs, "student.name is required")
	}
	email := strings.TrimSpace(r.Student.Email)
	if email == "" {
		errs = append(errs, "student.email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid student.email")
	}
	return errs
}

// Register godoc
// @Summary Register the current student for an event
// @Description Creates the registration row. Free events yield paymentStatus "none"; fee-bearing events start "pending" and are confirmed via the payment verification endpoint.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterRequest true "Event id and contact snapshot"
// @Success 201 {object} helpers.APIResponse "data contains the created registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, err := c.Service.RegisterForEvent(r.Context(), identity.UserID, req.EventID, req.Student.toDomain())
	if err != nil {
		c.writeRegistrationError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// ListRegistrationsResponse is the success payload for GET /registrations when
// the caller is an admin.
type ListRegistrationsResponse struct {
	Items      []*domain.RegistrationWithEvent `json:"items"`
	Pagination h.PaginationMeta                `json:"pagination"`
}

// List godoc
// @Summary List registrations
// @Description Students get their own registrations; admins get all registrations (paginated), each joined with its event.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (admin listing only)"
// @Param page_size query int false "Page size (admin listing only)"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [get]
func (c *RegistrationController) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}

	switch identity.Role {
	case domain.RoleAdmin:
		params := h.ParsePagination(r)
		items, total, err := c.Service.ListAllRegistrations(r.Context(), params)
		if err != nil {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
			return
		}
		h.WriteJSONSuccess(w, http.StatusOK, ListRegistrationsResponse{
			Items:      items,
			Pagination: h.NewPaginationMeta(params.Page, params.PageSize, total),
		})
	case domain.RoleStudent:
		items, err := c.Service.ListMyRegistrations(r.Context(), identity.UserID)
		if err != nil {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
			return
		}
		h.WriteJSONSuccess(w, http.StatusOK, items)
	default:
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
	}
}

// UpdatePaymentRequest is the request body for PATCH /registrations/{registrationID}.
// Used by admins to record cash payments.
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
	PaymentMethod string `json:"paymentMethod"`
}

// Validate implements helpers.Validator.
func (u UpdatePaymentRequest) Validate() []string {
	var errs []string
	if u.PaymentStatus == "" && u.PaymentMethod == "" {
		errs = append(errs, "at least one of paymentStatus, paymentMethod is required")
	}
	if u.PaymentStatus != "" {
		if _, err := domain.ParsePaymentStatus(u.PaymentStatus); err != nil {
			errs = append(errs, "paymentStatus must be one of: none, pending, paid")
		}
	}
	if u.PaymentMethod != "" {
		if _, err := domain.ParsePaymentMethod(u.PaymentMethod); err != nil {
			errs = append(errs, "paymentMethod must be one of: none, online, cash")
		}
	}
	return errs
}

// UpdatePayment godoc
// @Summary Update payment fields on a registration
// @Description Admin-only path for recording cash payments or correcting payment state. Values are restricted to the payment enums.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Param body body UpdatePaymentRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID} [patch]
func (c *RegistrationController) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationID")
	if registrationID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing registrationID")
		return
	}
	if !uuidRegex.MatchString(registrationID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid registrationID")
		return
	}

	var req UpdatePaymentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	var patch domain.PaymentPatch
	if req.PaymentStatus != "" {
		status, _ := domain.ParsePaymentStatus(req.PaymentStatus)
		patch.PaymentStatus = &status
	}
	if req.PaymentMethod != "" {
		method, _ := domain.ParsePaymentMethod(req.PaymentMethod)
		patch.PaymentMethod = &method
	}

	reg, err := c.Service.UpdatePaymentFields(r.Context(), registrationID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "registration not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "no valid fields to update")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reg)
}

func (c *RegistrationController) writeRegistrationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "already registered for this event")
	case errors.Is(err, domain.ErrPaymentNotConfigured):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "event is not configured for payment")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}
