package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/testbridge/testbridge-backend/internal/logger"
	"github.com/testbridge/testbridge-backend/internal/utils"
)

// Anchor requirement per test layer. The engine enforces whatever table it
// is given; the values here are the shipped defaults, not business logic.
const (
	AnchorMandatory   = "mandatory"
	AnchorRecommended = "recommended"
	AnchorOptional    = "optional"
)

type GateThresholds struct {
	PassRatePct   float64 `yaml:"pass_rate_pct"`
	CompletionPct float64 `yaml:"completion_pct"`
}

type EngineConfig struct {
	Layers map[string]string `yaml:"layers"`
	Gates  GateThresholds    `yaml:"gates"`
}

func Defaults() EngineConfig {
	return EngineConfig{
		Layers: map[string]string{
			"component":   AnchorMandatory,
			"sit":         AnchorMandatory,
			"acceptance":  AnchorMandatory,
			"regression":  AnchorRecommended,
			"performance": AnchorOptional,
			"rehearsal":   AnchorOptional,
		},
		Gates: GateThresholds{
			PassRatePct:   95,
			CompletionPct: 95,
		},
	}
}

// Load reads the policy file named by ENGINE_POLICY_PATH, falling back to
// the shipped defaults when the variable is unset or the file is absent.
// File values overlay defaults key by key.
func Load(log *logger.Logger) (EngineConfig, error) {
	cfg := Defaults()

	path := utils.GetEnv("ENGINE_POLICY_PATH", "", log)
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if log != nil {
				log.Warn("Policy file not found, using defaults", "path", path)
			}
			return cfg, nil
		}
		return cfg, fmt.Errorf("Failed to read policy file %s: %w", path, err)
	}

	var file EngineConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("Failed to parse policy file %s: %w", path, err)
	}

	for layer, req := range file.Layers {
		cfg.Layers[layer] = req
	}
	if file.Gates.PassRatePct > 0 {
		cfg.Gates.PassRatePct = file.Gates.PassRatePct
	}
	if file.Gates.CompletionPct > 0 {
		cfg.Gates.CompletionPct = file.Gates.CompletionPct
	}
	return cfg, nil
}
