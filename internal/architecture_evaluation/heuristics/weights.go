package heuristics

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

// ParameterWeights maps a parameter to a non-negative weight. The weights need
// not sum to 1; Aggregate normalizes over the parameters that were scored.
type ParameterWeights map[domain.Parameter]float64

// DefaultWeights gives every built-in parameter the same weight.
func DefaultWeights() ParameterWeights {
	w := make(ParameterWeights, len(domain.Parameters()))
	for _, p := range domain.Parameters() {
		w[p] = 1.0
	}
	return w
}

func (w ParameterWeights) Clone() ParameterWeights {
	out := make(ParameterWeights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Parameters returns the weighted parameters in a stable order.
func (w ParameterWeights) Parameters() []domain.Parameter {
	ps := make([]domain.Parameter, 0, len(w))
	for p := range w {
		ps = append(ps, p)
	}
	domain.SortParameters(ps)
	return ps
}

// Normalized scales usable weights so they sum to 1. Unusable weights (negative,
// NaN, infinite) are dropped.
func (w ParameterWeights) Normalized() ParameterWeights {
	sum := 0.0
	for _, p := range w.Parameters() {
		if v, ok := usableWeight(w[p]); ok {
			sum += v
		}
	}
	out := ParameterWeights{}
	if sum == 0 {
		return out
	}
	for p, v := range w {
		if v, ok := usableWeight(v); ok {
			out[p] = v / sum
		}
	}
	return out
}

func (w ParameterWeights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("no parameter weights defined")
	}
	for p, v := range w {
		if p == "" {
			return fmt.Errorf("empty parameter name")
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("weight %s=%v must be a finite non-negative number", p, v)
		}
	}
	return nil
}

func usableWeight(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

type weightsFile struct {
	Weights map[string]float64 `yaml:"weights"`
}

// LoadWeightsFile reads weights from a YAML document of the form
//
//	weights:
//	  latency: 2
//	  cost: 0.5
//
// An empty path yields DefaultWeights.
func LoadWeightsFile(path string) (ParameterWeights, error) {
	if path == "" {
		return DefaultWeights(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file: %w", err)
	}
	w, err := ParseWeights(b)
	if err != nil {
		return nil, fmt.Errorf("weights file %s: %w", path, err)
	}
	return w, nil
}

func ParseWeights(b []byte) (ParameterWeights, error) {
	var f weightsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	w := make(ParameterWeights, len(f.Weights))
	for name, v := range f.Weights {
		p, ok := domain.ParseParameter(name)
		if !ok {
			return nil, fmt.Errorf("empty parameter name")
		}
		w[p] = v
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}
