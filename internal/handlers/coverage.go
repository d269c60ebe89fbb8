package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/testbridge/testbridge-backend/internal/services"
)

type CoverageHandler struct {
	svc services.CoverageService
}

func NewCoverageHandler(svc services.CoverageService) *CoverageHandler {
	return &CoverageHandler{svc: svc}
}

// GET /api/plans/:id/coverage
func (h *CoverageHandler) PlanCoverage(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	coverage, err := h.svc.ComputePlanCoverage(c.Request.Context(), nil, planID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, coverage)
}

// GET /api/plans/:id/anchors/:anchorId/coverage
func (h *CoverageHandler) AnchorCoverage(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	anchorID, err := uuid.Parse(c.Param("anchorId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	report, err := h.svc.ComputeAnchorCoverage(c.Request.Context(), nil, planID, anchorID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, report)
}
