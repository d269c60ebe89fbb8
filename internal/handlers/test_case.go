package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/testbridge/testbridge-backend/internal/services"
)

type TestCaseHandler struct {
	svc services.TestCaseService
}

func NewTestCaseHandler(svc services.TestCaseService) *TestCaseHandler {
	return &TestCaseHandler{svc: svc}
}

// POST /api/cases
func (h *TestCaseHandler) Create(c *gin.Context) {
	var req services.TestCaseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	tc, validation, err := h.svc.Create(c.Request.Context(), nil, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"test_case": tc, "validation": validation})
}

// PUT /api/cases/:id
func (h *TestCaseHandler) Relink(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req services.TestCaseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	tc, validation, err := h.svc.Relink(c.Request.Context(), nil, id, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"test_case": tc, "validation": validation})
}

// POST /api/cases/:id/archive
func (h *TestCaseHandler) Archive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := h.svc.Archive(c.Request.Context(), nil, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
