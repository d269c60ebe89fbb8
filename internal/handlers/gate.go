package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/testbridge/testbridge-backend/internal/services"
)

type GateHandler struct {
	svc services.GateService
}

func NewGateHandler(svc services.GateService) *GateHandler {
	return &GateHandler{svc: svc}
}

// GET /api/plans/:id/exit-gate
func (h *GateHandler) EvaluateExit(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	report, err := h.svc.EvaluateExit(c.Request.Context(), nil, planID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, report)
}
