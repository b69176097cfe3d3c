package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/focusup-app/focusup-backend/internal/services"
)

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (eh *EventHandler) Create(c *gin.Context) {
	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Type        string     `json:"type"`
		StartsAt    time.Time  `json:"starts_at"`
		MethodID    *uuid.UUID `json:"method_id"`
		AlbumID     *uuid.UUID `json:"album_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	event, err := eh.eventService.Create(c.Request.Context(), services.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		StartsAt:    req.StartsAt,
		MethodID:    req.MethodID,
		AlbumID:     req.AlbumID,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, event)
}

func (eh *EventHandler) List(c *gin.Context) {
	events, err := eh.eventService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"events": events})
}

func (eh *EventHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid event id"))
		return
	}
	event, err := eh.eventService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, event)
}

func (eh *EventHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid event id"))
		return
	}
	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		StartsAt    *time.Time `json:"starts_at"`
		MethodID    *uuid.UUID `json:"method_id"`
		AlbumID     *uuid.UUID `json:"album_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	event, err := eh.eventService.Update(c.Request.Context(), id, services.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		MethodID:    req.MethodID,
		AlbumID:     req.AlbumID,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, event)
}

func (eh *EventHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid event id"))
		return
	}
	event, err := eh.eventService.Complete(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, event)
}

func (eh *EventHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid event id"))
		return
	}
	if err := eh.eventService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "deleted"})
}
