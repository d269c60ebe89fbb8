package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/testbridge/testbridge-backend/internal/config"
	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/types"
)

type ValidationStatus string

const (
	ValidationOK     ValidationStatus = "ok"
	ValidationWarn   ValidationStatus = "warn"
	ValidationReject ValidationStatus = "reject"
)

type LayerValidation struct {
	Status  ValidationStatus `json:"status"`
	Message string           `json:"message"`
}

// LayerPolicyService classifies whether a test case at a given layer is
// acceptable without an anchor. Pure: callers decide what to do with a
// reject, typically blocking the case write.
type LayerPolicyService interface {
	Validate(layer types.TestLayer, anchorID *uuid.UUID) LayerValidation
}

type layerPolicyService struct {
	log    *logger.Logger
	layers map[string]string
}

func NewLayerPolicyService(baseLog *logger.Logger, cfg config.EngineConfig) LayerPolicyService {
	return &layerPolicyService{
		log:    baseLog.With("service", "LayerPolicyService"),
		layers: cfg.Layers,
	}
}

func (s *layerPolicyService) Validate(layer types.TestLayer, anchorID *uuid.UUID) LayerValidation {
	if anchorID != nil {
		return LayerValidation{
			Status:  ValidationOK,
			Message: "anchor resolved",
		}
	}

	requirement, ok := s.layers[string(layer)]
	if !ok {
		// Unknown layers get the strict treatment so a typo cannot slip an
		// unanchored case past the policy.
		requirement = config.AnchorMandatory
	}

	switch requirement {
	case config.AnchorMandatory:
		return LayerValidation{
			Status: ValidationReject,
			Message: fmt.Sprintf(
				"test layer %q requires a process anchor: link the case to a process node, or to a requirement or development item that traces to one",
				layer,
			),
		}
	case config.AnchorRecommended:
		return LayerValidation{
			Status: ValidationWarn,
			Message: fmt.Sprintf(
				"test layer %q has no process anchor; coverage reporting will not see this case",
				layer,
			),
		}
	default:
		return LayerValidation{
			Status:  ValidationOK,
			Message: fmt.Sprintf("test layer %q does not require a process anchor", layer),
		}
	}
}
