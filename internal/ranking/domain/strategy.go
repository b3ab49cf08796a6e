package domain

// Strategy names a weighting profile. Matching is exact and case-sensitive.
type Strategy string

const (
	StrategySmart    Strategy = "smart"
	StrategyFastest  Strategy = "fastest"
	StrategyImpact   Strategy = "impact"
	StrategyDeadline Strategy = "deadline"
)

// Strategies lists the recognised strategies, default first.
func Strategies() []Strategy {
	return []Strategy{StrategySmart, StrategyFastest, StrategyImpact, StrategyDeadline}
}

// ParseStrategy converts a raw name into a Strategy. It never fails: blank
// names become smart, and unknown names are kept as-is so they can be
// reported, while WeightsFor treats them exactly like smart.
func ParseStrategy(name string) Strategy {
	if name == "" {
		return StrategySmart
	}
	return Strategy(name)
}

// IsKnown reports whether the strategy has its own weighting profile.
func (s Strategy) IsKnown() bool {
	switch s {
	case StrategySmart, StrategyFastest, StrategyImpact, StrategyDeadline:
		return true
	default:
		return false
	}
}

// Description is a short human label used by the CLI and MCP tools.
func (s Strategy) Description() string {
	switch s {
	case StrategyFastest:
		return "favor quick wins (effort weight +0.30)"
	case StrategyImpact:
		return "favor important work (importance weight +0.40)"
	case StrategyDeadline:
		return "favor looming deadlines (urgency weight +0.40)"
	default:
		return "balanced weighting"
	}
}

// Weights are the per-component multipliers used in the blend.
type Weights struct {
	Urgency    float64 `json:"urgency"`
	Importance float64 `json:"importance"`
	Effort     float64 `json:"effort"`
	Dependency float64 `json:"dependency"`
}

// BaseWeights returns the balanced weighting used by smart.
func BaseWeights() Weights {
	return Weights{
		Urgency:    0.35,
		Importance: 0.35,
		Effort:     0.15,
		Dependency: 0.15,
	}
}

// WeightsFor applies the strategy's single additive boost to the base weights.
// The result is intentionally not renormalised, so boosted strategies can
// produce scores above 100. Scores are only compared within one call.
func WeightsFor(s Strategy) Weights {
	w := BaseWeights()
	switch s {
	case StrategyFastest:
		w.Effort += 0.30
	case StrategyImpact:
		w.Importance += 0.40
	case StrategyDeadline:
		w.Urgency += 0.40
	}
	return w
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Urgency + w.Importance + w.Effort + w.Dependency
}
