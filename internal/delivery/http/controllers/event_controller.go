package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"eventconsole/internal/delivery/http/helpers"
	"eventconsole/internal/domain"
)

const dateLayout = "2006-01-02"

// parseDate parses a "YYYY-MM-DD" form value; empty input yields a zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

// TierRequest is a ticket tier in a create-event or add-tier body.
type TierRequest struct {
	Type       string `json:"type"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// Validate implements Validator.
func (t TierRequest) Validate() []string {
	var errs []string
	if t.Type == "" {
		errs = append(errs, "tier type is required")
	}
	if t.PriceCents < 0 {
		errs = append(errs, "tier price_cents must not be negative")
	}
	if t.Quantity < 0 {
		errs = append(errs, "tier quantity must not be negative")
	}
	return errs
}

// CreateEventRequest is the request body for POST /events. Dates use
// YYYY-MM-DD; clock times use HH:MM.
type CreateEventRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Venue       string        `json:"venue"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	StartTime   string        `json:"start_time"`
	EndTime     string        `json:"end_time"`
	RegStart    string        `json:"registration_start"`
	RegEnd      string        `json:"registration_end"`
	Tiers       []TierRequest `json:"tiers"`
}

// Validate implements Validator. The registration-window ordering rule is
// checked here so a bad draft never reaches persistence.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.Venue == "" {
		errs = append(errs, "venue is required")
	}
	start, err := parseDate(c.StartDate)
	if err != nil {
		errs = append(errs, "start_date must be YYYY-MM-DD")
	}
	if _, err := parseDate(c.EndDate); err != nil {
		errs = append(errs, "end_date must be YYYY-MM-DD")
	}
	if _, err := parseDate(c.RegStart); err != nil {
		errs = append(errs, "registration_start must be YYYY-MM-DD")
	}
	regEnd, err := parseDate(c.RegEnd)
	if err != nil {
		errs = append(errs, "registration_end must be YYYY-MM-DD")
	}
	if !start.IsZero() && !regEnd.IsZero() && !regEnd.Before(start) {
		errs = append(errs, "registration_end must be before start_date")
	}
	for _, t := range c.Tiers {
		errs = append(errs, t.Validate()...)
	}
	return errs
}

// CreateEventSuccessResponse is the success envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

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

// writeServiceError maps sentinel domain errors onto the standard HTTP
// responses; anything unrecognized is logged and becomes a 500.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid input")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrDuplicateEmail):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already in use")
	case errors.Is(err, domain.ErrSoldOut):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "ticket tier sold out")
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "ticket already checked in")
	case errors.Is(err, domain.ErrLegacyPayload):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unsupported legacy ticket payload")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create an event with its ticket tiers. The status starts at starting-soon; id and timestamps are server-generated.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event draft"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	startDate, _ := parseDate(req.StartDate)
	endDate, _ := parseDate(req.EndDate)
	regStart, _ := parseDate(req.RegStart)
	regEnd, _ := parseDate(req.RegEnd)

	event := &domain.Event{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		RegStart:    regStart,
		RegEnd:      regEnd,
	}
	for _, t := range req.Tiers {
		event.Tiers = append(event.Tiers, &domain.TicketTier{
			Type:       t.Type,
			PriceCents: t.PriceCents,
			Quantity:   t.Quantity,
		})
	}
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event with its ticket tiers. Archived events are still returned here.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.CreateEventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListEventsResponse is the response body for GET /events.
type ListEventsResponse struct {
	Events     []*domain.Event        `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEvents godoc
// @Summary List events
// @Description Lists events newest first. Archived events are excluded unless a status filter asks for them. Supports q (name substring) and status filters plus page/page_size.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param q query string false "Name substring filter"
// @Success 200 {object} helpers.APIResponse "data contains events and pagination"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := domain.EventFilter{Query: r.URL.Query().Get("q")}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.EventStatus(s)
		if !domain.ValidEventStatus(status) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown status")
			return
		}
		filter.Status = &status
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{
		Events:     events,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// All fields optional; omitted fields are unchanged. Writes are
// last-writer-wins.
type UpdateEventRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Venue       *string `json:"venue"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	RegStart    *string `json:"registration_start"`
	RegEnd      *string `json:"registration_end"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Name != nil && *u.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	for field, v := range map[string]*string{
		"start_date":         u.StartDate,
		"end_date":           u.EndDate,
		"registration_start": u.RegStart,
		"registration_end":   u.RegEnd,
	} {
		if v == nil {
			continue
		}
		if _, err := parseDate(*v); err != nil {
			errs = append(errs, field+" must be YYYY-MM-DD")
		}
	}
	return errs
}

func (u UpdateEventRequest) toPatch() domain.EventPatch {
	patch := domain.EventPatch{
		Name:        u.Name,
		Description: u.Description,
		Venue:       u.Venue,
		StartTime:   u.StartTime,
		EndTime:     u.EndTime,
	}
	setDate := func(dst **time.Time, src *string) {
		if src == nil {
			return
		}
		t, err := parseDate(*src)
		if err != nil {
			return
		}
		*dst = &t
	}
	setDate(&patch.StartDate, u.StartDate)
	setDate(&patch.EndDate, u.EndDate)
	setDate(&patch.RegStart, u.RegStart)
	setDate(&patch.RegEnd, u.RegEnd)
	return patch
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Overwrites the provided fields. The registration-window ordering rule is re-validated against the merged result.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param event body UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.CreateEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, req.toPatch())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ArchiveEvent godoc
// @Summary Archive an event
// @Description Sets the event status to archived. The event stays fetchable by ID but leaves the default listing.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204 "archived"
// @Failure 404 {object} helpers.APIResponse
// @Router /events/{eventID}/archive [post]
func (c *EventController) ArchiveEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if err := c.Service.ArchiveEvent(r.Context(), eventID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetStatusRequest is the request body for POST /events/{eventID}/status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (s SetStatusRequest) Validate() []string {
	if !domain.ValidEventStatus(domain.EventStatus(s.Status)) {
		return []string{"status must be one of starting-soon, ongoing, closed, archived"}
	}
	return nil
}

// SetStatus godoc
// @Summary Set an event's lifecycle status
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param status body SetStatusRequest true "New status"
// @Success 204 "updated"
// @Router /events/{eventID}/status [post]
func (c *EventController) SetStatus(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req SetStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.SetEventStatus(r.Context(), eventID, domain.EventStatus(req.Status)); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTier godoc
// @Summary Add a ticket tier to an event
// @Tags tiers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param tier body TierRequest true "Tier"
// @Success 201 {object} helpers.APIResponse "data contains the created tier"
// @Router /events/{eventID}/tiers [post]
func (c *EventController) AddTier(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req TierRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	tier := &domain.TicketTier{
		Type:       req.Type,
		PriceCents: req.PriceCents,
		Quantity:   req.Quantity,
	}
	if err := c.Service.AddTicketTier(r.Context(), eventID, tier); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, tier)
}

// UpdateTierRequest is the request body for PATCH on a tier. A quantity
// edit resets the tier's remaining count to the new quantity.
type UpdateTierRequest struct {
	Type       *string `json:"type"`
	PriceCents *int64  `json:"price_cents"`
	Quantity   *int    `json:"quantity"`
}

// Validate implements Validator.
func (u UpdateTierRequest) Validate() []string {
	var errs []string
	if u.Type != nil && *u.Type == "" {
		errs = append(errs, "type must not be empty")
	}
	if u.PriceCents != nil && *u.PriceCents < 0 {
		errs = append(errs, "price_cents must not be negative")
	}
	if u.Quantity != nil && *u.Quantity < 0 {
		errs = append(errs, "quantity must not be negative")
	}
	return errs
}

// UpdateTier godoc
// @Summary Update a ticket tier
// @Tags tiers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param tierID path string true "Tier ID"
// @Param tier body UpdateTierRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated tier"
// @Router /events/{eventID}/tiers/{tierID} [patch]
func (c *EventController) UpdateTier(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	tierID := r.PathValue("tierID")
	var req UpdateTierRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	tier, err := c.Service.UpdateTicketTier(r.Context(), eventID, tierID, domain.TierPatch{
		Type:       req.Type,
		PriceCents: req.PriceCents,
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tier)
}

// RemoveTier godoc
// @Summary Remove a ticket tier
// @Tags tiers
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param tierID path string true "Tier ID"
// @Success 204 "removed"
// @Router /events/{eventID}/tiers/{tierID} [delete]
func (c *EventController) RemoveTier(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	tierID := r.PathValue("tierID")
	if err := c.Service.RemoveTicketTier(r.Context(), eventID, tierID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
