package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// EventRequest is the request body for POST /events and PUT /events/{eventID}.
type EventRequest struct {
	Title           string  `json:"title"`
	Category        string  `json:"category"`
	Date            string  `json:"date"` // YYYY-MM-DD
	Time            string  `json:"time"`
	Location        string  `json:"location"`
	Venue           string  `json:"venue"`
	Description     string  `json:"description"`
	Capacity        *int    `json:"capacity"`
	ImageURL        string  `json:"image_url"`
	PaymentRequired bool    `json:"paymentRequired"`
	Fee             float64 `json:"fee"`
	Status          string  `json:"status"`
}

// Validate implements helpers.Validator.
func (e EventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if e.Date == "" {
		errs = append(errs, "date is required")
	} else if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		errs = append(errs, "date must be YYYY-MM-DD")
	}
	if e.Fee < 0 {
		errs = append(errs, "fee must not be negative")
	}
	if e.PaymentRequired && e.Fee <= 0 {
		errs = append(errs, "fee must be positive when payment is required")
	}
	if e.Status != "" {
		if _, err := domain.ParseEventStatus(e.Status); err != nil {
			errs = append(errs, "status must be one of: draft, published, cancelled")
		}
	}
	return errs
}

func (e EventRequest) toDomain() *domain.Event {
	date, _ := time.Parse("2006-01-02", e.Date)
	return &domain.Event{
		Title:           strings.TrimSpace(e.Title),
		Category:        strings.TrimSpace(e.Category),
		Date:            date,
		Time:            strings.TrimSpace(e.Time),
		Location:        strings.TrimSpace(e.Location),
		Venue:           strings.TrimSpace(e.Venue),
		Description:     e.Description,
		Capacity:        e.Capacity,
		ImageURL:        strings.TrimSpace(e.ImageURL),
		PaymentRequired: e.PaymentRequired,
		Fee:             e.Fee,
		Status:          domain.EventStatus(e.Status),
	}
}

// ListPublished godoc
// @Summary List published events
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data is an array of events"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListPublished(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListPublished(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by id
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid eventID")
		return
	}
	event, err := c.Service.GetByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Admin only. Events default to draft status; only published events are visible to students.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}

	event := req.toDomain()
	event.CreatedBy = identity.UserID
	created, err := c.Service.Create(r.Context(), event)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, created)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Admin only. Replaces the editable fields of the event.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body EventRequest true "Event data"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid eventID")
		return
	}
	var req EventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	event := req.toDomain()
	event.ID = eventID
	updated, err := c.Service.Update(r.Context(), event)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Admin only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid eventID")
		return
	}
	if err := c.Service.Delete(r.Context(), eventID); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
