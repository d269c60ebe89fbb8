package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/testbridge/testbridge-backend/internal/services"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type SuiteHandler struct {
	svc services.SuiteLinkService
}

func NewSuiteHandler(svc services.SuiteLinkService) *SuiteHandler {
	return &SuiteHandler{svc: svc}
}

type createSuiteRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// POST /api/suites
func (h *SuiteHandler) CreateSuite(c *gin.Context) {
	var req createSuiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	suite, err := h.svc.CreateSuite(c.Request.Context(), nil, req.Name, req.Description)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"suite": suite})
}

type linkCaseRequest struct {
	TestCaseID  uuid.UUID         `json:"test_case_id"`
	AddedMethod types.AddedMethod `json:"added_method"`
}

// POST /api/suites/:id/cases
func (h *SuiteHandler) LinkCase(c *gin.Context) {
	suiteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req linkCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	link, err := h.svc.Link(c.Request.Context(), nil, req.TestCaseID, suiteID, req.AddedMethod)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"link": link})
}

// DELETE /api/suites/:id/cases/:caseId
func (h *SuiteHandler) UnlinkCase(c *gin.Context) {
	suiteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	caseID, err := uuid.Parse(c.Param("caseId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := h.svc.Unlink(c.Request.Context(), nil, caseID, suiteID); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/suites/:id/cases
func (h *SuiteHandler) ListCases(c *gin.Context) {
	suiteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	links, err := h.svc.ListCasesForSuite(c.Request.Context(), nil, suiteID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"links": links})
}

// GET /api/cases/:id/suites
func (h *SuiteHandler) ListSuites(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	links, err := h.svc.ListSuitesForCase(c.Request.Context(), nil, caseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"links": links})
}
