package heuristics

import (
	"math"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

const (
	// EmptyScore is the overall score of an architecture with no components,
	// or one where no weighted parameter was scored at all.
	EmptyScore = 0.0

	// ComponentShare and LinkShare weight the two sides of a parameter score
	// when both components and links declare it.
	ComponentShare = 0.7
	LinkShare      = 0.3

	// BottleneckThreshold is the fixed score under which a component is
	// reported as a bottleneck.
	BottleneckThreshold = 0.8

	baseTolerance     = 3.0
	capacityTolerance = 3.0
	defaultCapacity   = 0.5
)

// Aggregate returns the weighted overall score on the 0-10 scale. Parameters
// that no component or link declares are left out of both the numerator and
// the denominator.
func Aggregate(components []*domain.Component, links []*domain.Link, weights ParameterWeights) float64 {
	if len(components) == 0 {
		return EmptyScore
	}
	scores := AggregateByParameterWithLinks(components, links)
	return Combine(scores, weights)
}

// Combine folds per-parameter scores into one weight-normalized figure.
func Combine(scores map[domain.Parameter]float64, weights ParameterWeights) float64 {
	num, den := 0.0, 0.0
	for _, p := range weights.Parameters() {
		w, ok := usableWeight(weights[p])
		if !ok {
			continue
		}
		s, ok := scores[p]
		if !ok {
			continue
		}
		num += w * s
		den += w
	}
	if den == 0 {
		return EmptyScore
	}
	return clamp(num/den, domain.MinScore, domain.MaxScore)
}

// AggregateByParameter averages each parameter over the components that
// declare it.
func AggregateByParameter(components []*domain.Component) map[domain.Parameter]float64 {
	out := map[domain.Parameter]float64{}
	for p, m := range componentMeans(components) {
		out[p] = m.value()
	}
	return out
}

// AggregateByParameterWithLinks lets link profiles pull each parameter score
// towards their own mean. A side that declares nothing for a parameter does not
// dilute the other.
func AggregateByParameterWithLinks(components []*domain.Component, links []*domain.Link) map[domain.Parameter]float64 {
	comp := componentMeans(components)
	link := linkMeans(links)

	out := make(map[domain.Parameter]float64, len(comp)+len(link))
	for p, c := range comp {
		if l, ok := link[p]; ok {
			out[p] = ComponentShare*c.value() + LinkShare*l.value()
			continue
		}
		out[p] = c.value()
	}
	for p, l := range link {
		if _, ok := comp[p]; !ok {
			out[p] = l.value()
		}
	}
	return out
}

// BottleneckScore rates how comfortably a component carries its connections,
// in [0,1]. Only links touching the component are counted.
func BottleneckScore(c *domain.Component, links []*domain.Link) float64 {
	if c == nil {
		return 1.0
	}
	n := 0
	for _, l := range links {
		if l == nil {
			continue
		}
		if l.SourceRef() == c.ID {
			n++
		}
		if l.TargetRef() == c.ID {
			n++
		}
	}
	return BottleneckScoreForConnections(c, n)
}

// BottleneckScoreForConnections applies the capacity model to a known
// connection count. A component tolerates 3 connections plus up to 3 more as
// its declared capacity grows; past that the score decays as tolerated/actual.
func BottleneckScoreForConnections(c *domain.Component, connections int) float64 {
	tolerated := baseTolerance + capacityTolerance*Capacity(c)
	if float64(connections) <= tolerated {
		return 1.0
	}
	return tolerated / float64(connections)
}

// Capacity is the mean of the declared SCALABILITY and AVAILABILITY scores,
// scaled to [0,1]. Components declaring neither get a neutral 0.5.
func Capacity(c *domain.Component) float64 {
	if c == nil {
		return defaultCapacity
	}
	sum, n := 0.0, 0
	for _, p := range []domain.Parameter{domain.ParamAvailability, domain.ParamScalability} {
		if v, ok := usableScore(c.Heuristics, p); ok {
			sum += clamp(v, domain.MinScore, domain.MaxScore)
			n++
		}
	}
	if n == 0 {
		return defaultCapacity
	}
	return sum / float64(n) / domain.MaxScore
}

type mean struct {
	sum float64
	n   int
}

func (m mean) value() float64 { return m.sum / float64(m.n) }

func componentMeans(components []*domain.Component) map[domain.Parameter]mean {
	acc := map[domain.Parameter]mean{}
	for _, c := range components {
		if c == nil {
			continue
		}
		accumulate(acc, c.Heuristics)
	}
	return acc
}

func linkMeans(links []*domain.Link) map[domain.Parameter]mean {
	acc := map[domain.Parameter]mean{}
	for _, l := range links {
		if l == nil {
			continue
		}
		accumulate(acc, l.Heuristics)
	}
	return acc
}

func accumulate(acc map[domain.Parameter]mean, h domain.HeuristicProfile) {
	for p := range h {
		v, ok := usableScore(h, p)
		if !ok {
			continue
		}
		m := acc[p]
		m.sum += v
		m.n++
		acc[p] = m
	}
}

func usableScore(h domain.HeuristicProfile, p domain.Parameter) (float64, bool) {
	v, ok := h.Score(p)
	if !ok || v < 0 {
		return 0, false
	}
	return v, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
