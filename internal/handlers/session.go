package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/focusup-app/focusup-backend/internal/services"
	"github.com/focusup-app/focusup-backend/internal/types"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type sessionResponse struct {
	*types.Session
	ElapsedMs int64 `json:"elapsed_ms"`
}

func toSessionResponse(s *types.Session) sessionResponse {
	ms, err := services.IntervalToMs(s.Elapsed)
	if err != nil {
		ms = 0
	}
	return sessionResponse{Session: s, ElapsedMs: ms}
}

func (sh *SessionHandler) Create(c *gin.Context) {
	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		EventID     *uuid.UUID `json:"event_id"`
		MethodID    *uuid.UUID `json:"method_id"`
		AlbumID     *uuid.UUID `json:"album_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	session, err := sh.sessionService.Create(c.Request.Context(), services.CreateSessionInput{
		Title:       req.Title,
		Description: req.Description,
		EventID:     req.EventID,
		MethodID:    req.MethodID,
		AlbumID:     req.AlbumID,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, toSessionResponse(session))
}

func (sh *SessionHandler) CreateFromEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid event id"))
		return
	}
	session, err := sh.sessionService.CreateFromEvent(c.Request.Context(), eventID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, toSessionResponse(session))
}

func (sh *SessionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	result, err := sh.sessionService.List(c.Request.Context(), page, perPage)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	sessions := make([]sessionResponse, 0, len(result.Sessions))
	for _, s := range result.Sessions {
		sessions = append(sessions, toSessionResponse(s))
	}
	RespondOK(c, gin.H{
		"sessions": sessions,
		"total":    result.Total,
		"page":     result.Page,
		"per_page": result.PerPage,
	})
}

func (sh *SessionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid session id"))
		return
	}
	session, err := sh.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, toSessionResponse(session))
}

func (sh *SessionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid session id"))
		return
	}
	var req struct {
		Status    *string `json:"status"`
		ElapsedMs *int64  `json:"elapsed_ms"`
		Notes     *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	session, err := sh.sessionService.Update(c.Request.Context(), id, services.UpdateSessionInput{
		Status:    req.Status,
		ElapsedMs: req.ElapsedMs,
		Notes:     req.Notes,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, toSessionResponse(session))
}

func (sh *SessionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid session id"))
		return
	}
	if err := sh.sessionService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "deleted"})
}
