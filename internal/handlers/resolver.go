package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/testbridge/testbridge-backend/internal/services"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type ResolverHandler struct {
	resolver services.AnchorResolverService
	policy   services.LayerPolicyService
}

func NewResolverHandler(resolver services.AnchorResolverService, policy services.LayerPolicyService) *ResolverHandler {
	return &ResolverHandler{resolver: resolver, policy: policy}
}

// POST /api/scope/resolve-anchor
func (h *ResolverHandler) ResolveAnchor(c *gin.Context) {
	var refs services.AnchorRefs
	if err := c.ShouldBindJSON(&refs); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	anchorID, err := h.resolver.ResolveAnchor(c.Request.Context(), nil, refs)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	// A miss is a valid result, not an error.
	RespondOK(c, gin.H{"anchor_id": anchorID})
}

type validateLayerRequest struct {
	TestLayer types.TestLayer `json:"test_layer"`
	AnchorID  *uuid.UUID      `json:"anchor_id,omitempty"`
}

// POST /api/scope/validate-layer
func (h *ResolverHandler) ValidateLayer(c *gin.Context) {
	var req validateLayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.TestLayer == "" {
		RespondError(c, http.StatusBadRequest, "bad_request", errMissingField("test_layer"))
		return
	}

	RespondOK(c, h.policy.Validate(req.TestLayer, req.AnchorID))
}
