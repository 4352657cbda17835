package controllers

import (
	"log/slog"
	"net/http"

	"eventconsole/internal/delivery/http/helpers"
	"eventconsole/internal/domain"
)

type MessageController struct {
	Logger  *slog.Logger
	Service domain.MessageService
}

func NewMessageController(logger *slog.Logger, svc domain.MessageService) *MessageController {
	return &MessageController{
		Logger:  logger,
		Service: svc,
	}
}

// AnnouncementRequest is the request body for POST /events/{eventID}/announcements.
type AnnouncementRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Validate implements Validator.
func (a AnnouncementRequest) Validate() []string {
	var errs []string
	if a.Subject == "" {
		errs = append(errs, "subject is required")
	}
	if a.Body == "" {
		errs = append(errs, "body is required")
	}
	return errs
}

// AnnouncementResponse reports the fan-out outcome. Failed recipients are
// listed; there are no retries.
type AnnouncementResponse struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed"`
}

// SendAnnouncement godoc
// @Summary Message all registrants of an event
// @Description Stores the message in each customer's conversation and sends it by email.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param announcement body AnnouncementRequest true "Announcement"
// @Success 200 {object} helpers.APIResponse "data contains sent count and failed recipients"
// @Router /events/{eventID}/announcements [post]
func (c *MessageController) SendAnnouncement(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	var req AnnouncementRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sent, failed, err := c.Service.SendAnnouncement(r.Context(), eventID, req.Subject, req.Body)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if failed == nil {
		failed = []string{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AnnouncementResponse{Sent: sent, Failed: failed})
}

// ListConversations godoc
// @Summary List customer conversations for an event
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains conversations"
// @Router /events/{eventID}/conversations [get]
func (c *MessageController) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := c.Service.ListConversations(r.Context(), r.PathValue("eventID"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, convs)
}

// ListMessages godoc
// @Summary List the messages in a conversation
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param conversationID path string true "Conversation ID"
// @Success 200 {object} helpers.APIResponse "data contains messages"
// @Router /conversations/{conversationID}/messages [get]
func (c *MessageController) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := c.Service.ListMessages(r.Context(), r.PathValue("conversationID"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, msgs)
}
