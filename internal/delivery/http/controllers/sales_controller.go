package controllers

import (
	"log/slog"
	"net/http"

	"eventconsole/internal/delivery/http/helpers"
	"eventconsole/internal/domain"
)

type SalesController struct {
	Logger  *slog.Logger
	Service domain.SalesService
}

func NewSalesController(logger *slog.Logger, svc domain.SalesService) *SalesController {
	return &SalesController{
		Logger:  logger,
		Service: svc,
	}
}

// EventSummary godoc
// @Summary Sales summary for one event
// @Description Folds the event's registrations into tickets sold, revenue in cents, and a per-tier breakdown with remaining capacity.
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the sales summary"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/sales [get]
func (c *SalesController) EventSummary(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	summary, err := c.Service.EventSummary(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}

// GlobalSummary godoc
// @Summary Sales summary across all events
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the sales summary"
// @Router /sales [get]
func (c *SalesController) GlobalSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.Service.GlobalSummary(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
