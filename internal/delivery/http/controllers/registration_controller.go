package controllers

import (
	"log/slog"
	"net/http"

	"eventconsole/internal/delivery/http/helpers"
	"eventconsole/internal/domain"
)

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

// PurchaseRequest is the request body for POST /events/{eventID}/registrations.
type PurchaseRequest struct {
	TierType string `json:"tier_type"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Quantity int    `json:"quantity"`
}

// Validate implements Validator.
func (p PurchaseRequest) Validate() []string {
	var errs []string
	if p.TierType == "" {
		errs = append(errs, "tier_type is required")
	}
	if p.Name == "" {
		errs = append(errs, "name is required")
	}
	if p.Email == "" {
		errs = append(errs, "email is required")
	}
	if p.Quantity < 1 {
		errs = append(errs, "quantity must be at least 1")
	}
	return errs
}

// RecordPurchase godoc
// @Summary Record a ticket purchase
// @Description Atomically reserves tickets from the tier and records the registration. The registration ID doubles as the QR ticket ID.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param purchase body PurchaseRequest true "Purchase"
// @Success 201 {object} helpers.APIResponse "data contains the registration"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (sold out)"
// @Router /events/{eventID}/registrations [post]
func (c *RegistrationController) RecordPurchase(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req PurchaseRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.RecordPurchase(r.Context(), eventID, req.TierType, req.Name, req.Email, req.Phone, req.Quantity)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// ListRegistrationsResponse is the response body for GET /events/{eventID}/registrations.
type ListRegistrationsResponse struct {
	Registrations []*domain.Registration `json:"registrations"`
	Pagination    helpers.PaginationMeta `json:"pagination"`
}

// ListRegistrations godoc
// @Summary List registrations for an event
// @Description Lists purchasers newest first, with an optional name search, paginated.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param q query string false "Name substring filter"
// @Success 200 {object} helpers.APIResponse "data contains registrations and pagination"
// @Router /events/{eventID}/registrations [get]
func (c *RegistrationController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	params := helpers.ParsePagination(r)
	regs, total, err := c.Service.ListRegistrations(r.Context(), eventID, r.URL.Query().Get("q"), params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListRegistrationsResponse{
		Registrations: regs,
		Pagination:    helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// CheckInRequest is the request body for POST /events/{eventID}/checkin.
// Payload is the raw string decoded from the QR code.
type CheckInRequest struct {
	Payload string `json:"payload"`
}

// Validate implements Validator.
func (c CheckInRequest) Validate() []string {
	if c.Payload == "" {
		return []string{"payload is required"}
	}
	return nil
}

// CheckIn godoc
// @Summary Check in a scanned ticket
// @Description Applies the pending-to-registered transition for the ticket named by the QR payload. The transition is a conditional database write, so a second scan of the same ticket gets a 409 even from a different device.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param scan body CheckInRequest true "Scanned payload"
// @Success 200 {object} helpers.APIResponse "data contains the checked-in registration"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no matching record)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already scanned)"
// @Router /events/{eventID}/checkin [post]
func (c *RegistrationController) CheckIn(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req CheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.CheckIn(r.Context(), eventID, req.Payload)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}
