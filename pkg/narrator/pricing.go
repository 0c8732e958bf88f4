package narrator

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ModelPricing is the per-million-token price of one chat model.
type ModelPricing struct {
	Model            string  `yaml:"model"`
	InputPerMillion  float64 `yaml:"input_per_million"`
	OutputPerMillion float64 `yaml:"output_per_million"`
}

// PriceTable holds YAML-loaded pricing for a provider.
type PriceTable struct {
	Provider string         `yaml:"provider"`
	Updated  string         `yaml:"updated"`
	Models   []ModelPricing `yaml:"models"`
}

// LoadPricing parses a YAML price table.
func LoadPricing(data []byte) (*PriceTable, error) {
	var p PriceTable
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse pricing data: %w", err)
	}
	if p.Provider == "" {
		return nil, fmt.Errorf("pricing data: missing provider name")
	}
	if len(p.Models) == 0 {
		return nil, fmt.Errorf("pricing data: no models defined")
	}
	return &p, nil
}

// Cost returns the USD cost of a call. ok is false for unpriced models.
func (p *PriceTable) Cost(model string, inputTokens, outputTokens int) (cost float64, ok bool) {
	if p == nil {
		return 0, false
	}
	for _, m := range p.Models {
		if m.Model == model {
			return float64(inputTokens)*m.InputPerMillion/1_000_000 +
				float64(outputTokens)*m.OutputPerMillion/1_000_000, true
		}
	}
	return 0, false
}
