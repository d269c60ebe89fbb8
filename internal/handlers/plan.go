package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/testbridge/testbridge-backend/internal/services"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type PlanHandler struct {
	scopeSvc      services.ScopeService
	suggestionSvc services.SuggestionService
}

func NewPlanHandler(scopeSvc services.ScopeService, suggestionSvc services.SuggestionService) *PlanHandler {
	return &PlanHandler{scopeSvc: scopeSvc, suggestionSvc: suggestionSvc}
}

// POST /api/plans/:id/scope
func (h *PlanHandler) DeclareScope(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req services.DeclareScopeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	decl, err := h.scopeSvc.DeclareScope(c.Request.Context(), nil, planID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"declaration": decl})
}

// DELETE /api/plans/:id/scope/:declId
func (h *PlanHandler) RemoveDeclaration(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	declID, err := uuid.Parse(c.Param("declId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := h.scopeSvc.RemoveDeclaration(c.Request.Context(), nil, planID, declID); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/plans/:id/suggestions
func (h *PlanHandler) SuggestCandidates(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	result, err := h.suggestionSvc.SuggestCandidates(c.Request.Context(), nil, planID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

type addCasesRequest struct {
	TestCaseIDs []uuid.UUID       `json:"test_case_ids"`
	AddedMethod types.AddedMethod `json:"added_method"`
}

// POST /api/plans/:id/cases
func (h *PlanHandler) AddCases(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req addCasesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if len(req.TestCaseIDs) == 0 {
		RespondError(c, http.StatusBadRequest, "bad_request", errMissingField("test_case_ids"))
		return
	}

	result, err := h.scopeSvc.AddCasesToPlan(c.Request.Context(), nil, planID, req.TestCaseIDs, req.AddedMethod)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

// DELETE /api/plans/:id/cases/:caseId
func (h *PlanHandler) RemoveCase(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	caseID, err := uuid.Parse(c.Param("caseId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := h.scopeSvc.RemoveCaseFromPlan(c.Request.Context(), nil, planID, caseID); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
