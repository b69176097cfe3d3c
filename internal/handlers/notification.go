package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/focusup-app/focusup-backend/internal/requestdata"
	"github.com/focusup-app/focusup-backend/internal/services"
	"github.com/focusup-app/focusup-backend/internal/types"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (nh *NotificationHandler) Upcoming(c *gin.Context) {
	list, err := nh.notificationService.UpcomingForUser(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"notifications": list})
}

func (nh *NotificationHandler) Create(c *gin.Context) {
	var req struct {
		Type        string          `json:"type"`
		Title       string          `json:"title"`
		Message     json.RawMessage `json:"message"`
		ScheduledAt time.Time       `json:"scheduled_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	switch req.Type {
	case types.NotificationTypeEvent, types.NotificationTypePendingMethod,
		types.NotificationTypePendingSession, types.NotificationTypeMotivation:
	default:
		RespondError(c, http.StatusBadRequest, "invalid_type", fmt.Errorf("unknown notification type %q", req.Type))
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing request identity"))
		return
	}
	row, err := nh.notificationService.CreateScheduled(c.Request.Context(), rd.UserID, req.Type, req.Title, req.Message, req.ScheduledAt)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, row)
}
