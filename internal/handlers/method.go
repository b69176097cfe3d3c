package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/focusup-app/focusup-backend/internal/services"
)

type MethodHandler struct {
	methodService services.StudyMethodService
}

func NewMethodHandler(methodService services.StudyMethodService) *MethodHandler {
	return &MethodHandler{methodService: methodService}
}

func (mh *MethodHandler) List(c *gin.Context) {
	methods, err := mh.methodService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"methods": methods})
}

func (mh *MethodHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid method id"))
		return
	}
	method, err := mh.methodService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, method)
}

func (mh *MethodHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		TotalSteps  int    `json:"total_steps"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	method, err := mh.methodService.Create(c.Request.Context(), req.Name, req.Description, req.TotalSteps)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, method)
}
