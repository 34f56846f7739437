package domain

import (
	"fmt"
	"math"
)

const (
	MinScore = 0.0
	MaxScore = 10.0
)

// HeuristicProfile maps a parameter to a 0-10 score. A parameter missing from the
// map is "not scored"; it is never read as zero.
type HeuristicProfile map[Parameter]float64

// Score returns the declared score for p. Non-finite values are treated as
// undeclared.
func (h HeuristicProfile) Score(p Parameter) (float64, bool) {
	v, ok := h[p]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (h HeuristicProfile) Clone() HeuristicProfile {
	out := make(HeuristicProfile, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

func (h HeuristicProfile) Validate() error {
	for p, v := range h {
		if p == "" {
			return fmt.Errorf("%w: empty parameter name", ErrInvalidProfile)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < MinScore || v > MaxScore {
			return fmt.Errorf("%w: %s=%v outside [%v,%v]", ErrInvalidProfile, p, v, MinScore, MaxScore)
		}
	}
	return nil
}

// Normalize folds parameter names to their canonical form and validates the
// result. Two keys that fold to the same parameter are rejected.
func (h HeuristicProfile) Normalize() (HeuristicProfile, error) {
	if h == nil {
		return nil, nil
	}
	out := make(HeuristicProfile, len(h))
	for k, v := range h {
		p, ok := ParseParameter(string(k))
		if !ok {
			return nil, fmt.Errorf("%w: empty parameter name", ErrInvalidProfile)
		}
		if _, dup := out[p]; dup {
			return nil, fmt.Errorf("%w: %s declared twice", ErrInvalidProfile, p)
		}
		out[p] = v
	}
	return out, out.Validate()
}
