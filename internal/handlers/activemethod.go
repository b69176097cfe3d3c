package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/focusup-app/focusup-backend/internal/services"
)

type ActiveMethodHandler struct {
	activeMethodService services.ActiveMethodService
}

func NewActiveMethodHandler(activeMethodService services.ActiveMethodService) *ActiveMethodHandler {
	return &ActiveMethodHandler{activeMethodService: activeMethodService}
}

func (amh *ActiveMethodHandler) Start(c *gin.Context) {
	var req struct {
		MethodID uuid.UUID `json:"method_id"`
		Progress any       `json:"progress"`
		Progreso any       `json:"progreso"`
		Status   string    `json:"status"`
		Estado   string    `json:"estado"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	if req.MethodID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("method_id is required"))
		return
	}
	// Spanish field names from older clients take precedence when both appear.
	progress := req.Progress
	if req.Progreso != nil {
		progress = req.Progreso
	}
	status := req.Status
	if req.Estado != "" {
		status = req.Estado
	}

	row, err := amh.activeMethodService.Create(c.Request.Context(), services.CreateActiveMethodInput{
		MethodID: req.MethodID,
		Progress: progress,
		Status:   status,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, row)
}

func (amh *ActiveMethodHandler) UpdateProgress(c *gin.Context) {
	methodID, err := uuid.Parse(c.Param("methodId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid method id"))
		return
	}
	var req struct {
		Progress  any   `json:"progress"`
		Progreso  any   `json:"progreso"`
		Finalize  *bool `json:"finalize"`
		Finalizar *bool `json:"finalizar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	progress := req.Progress
	if req.Progreso != nil {
		progress = req.Progreso
	}
	finalize := false
	if req.Finalize != nil {
		finalize = *req.Finalize
	}
	if req.Finalizar != nil {
		finalize = *req.Finalizar
	}

	row, err := amh.activeMethodService.UpdateProgress(c.Request.Context(), methodID, services.UpdateActiveMethodInput{
		Progress: progress,
		Finalize: finalize,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, row)
}

func (amh *ActiveMethodHandler) List(c *gin.Context) {
	rows, err := amh.activeMethodService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"active_methods": rows})
}

func (amh *ActiveMethodHandler) Resume(c *gin.Context) {
	methodID, err := uuid.Parse(c.Param("methodId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid method id"))
		return
	}
	row, resume, err := amh.activeMethodService.Resume(c.Request.Context(), methodID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"active_method": row,
		"current_step":  resume.CurrentStep,
		"route":         resume.Route,
	})
}

func (amh *ActiveMethodHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid active method id"))
		return
	}
	if err := amh.activeMethodService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "deleted"})
}
