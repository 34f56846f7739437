package evaluation

import (
	"time"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/heuristics"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/rules"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/topology"
)

// Evaluator combines rule validation, heuristic scoring and topology into
// reports. The rule engine and weights are fixed at construction, so one
// Evaluator can serve concurrent callers.
type Evaluator struct {
	rules   *rules.Engine
	weights heuristics.ParameterWeights
	now     func() time.Time
}

func NewEvaluator(engine *rules.Engine, weights heuristics.ParameterWeights) *Evaluator {
	if engine == nil {
		engine = rules.NewDefaultEngine()
	}
	if weights == nil {
		weights = heuristics.DefaultWeights()
	}
	return &Evaluator{
		rules:   engine,
		weights: weights.Clone(),
		now:     domain.Now,
	}
}

func (e *Evaluator) Rules() *rules.Engine { return e.rules }

func (e *Evaluator) Weights() heuristics.ParameterWeights { return e.weights.Clone() }

// Evaluate returns only the overall score.
func (e *Evaluator) Evaluate(a *domain.Architecture) float64 {
	if a == nil {
		return heuristics.EmptyScore
	}
	return heuristics.Aggregate(a.Components, a.Links, e.weights)
}

// EvaluateDetailed builds a full report using connection counts taken from
// the architecture's own links.
func (e *Evaluator) EvaluateDetailed(a *domain.Architecture) *Report {
	return e.EvaluateWithStats(a, topology.FromArchitecture(a))
}

// EvaluateWithStats is EvaluateDetailed with an external source of connection
// counts. Malformed graphs still produce a report; dangling links surface as
// violations.
func (e *Evaluator) EvaluateWithStats(a *domain.Architecture, stats topology.StatsProvider) *Report {
	if a == nil {
		a = &domain.Architecture{}
	}
	if stats == nil {
		stats = topology.FromArchitecture(a)
	}

	overall := heuristics.Aggregate(a.Components, a.Links, e.weights)
	params := heuristics.AggregateByParameterWithLinks(a.Components, a.Links)
	bottlenecks := Bottlenecks(a.Components, stats)
	validation := e.rules.ValidateArchitecture(a)

	insights := Insights(overall, len(a.Components), len(a.Links), params, bottlenecks)
	insights = append(insights, DetectPatterns(a.Components)...)

	return &Report{
		ArchitectureID:   a.ID,
		ArchitectureName: a.Name,
		OverallScore:     overall,
		ComponentCount:   len(a.Components),
		LinkCount:        len(a.Links),
		ParameterScores:  params,
		Bottlenecks:      bottlenecks,
		Insights:         insights,
		Valid:            validation.Valid,
		Violations:       validation.Violations,
		Warnings:         validation.Warnings,
		EvaluatedAt:      e.now(),
	}
}

// Bottlenecks lists components whose bottleneck score is under
// heuristics.BottleneckThreshold, in component order.
func Bottlenecks(components []*domain.Component, stats topology.StatsProvider) []BottleneckInfo {
	out := []BottleneckInfo{}
	for _, c := range components {
		if c == nil {
			continue
		}
		s := stats.ConnectionStats(c.ID)
		score := heuristics.BottleneckScoreForConnections(c, s.Total())
		if score >= heuristics.BottleneckThreshold {
			continue
		}
		out = append(out, BottleneckInfo{
			ComponentID:   c.ID,
			ComponentName: c.Name,
			ComponentType: c.Type,
			Score:         score,
			Incoming:      s.Incoming,
			Outgoing:      s.Outgoing,
		})
	}
	return out
}

func (e *Evaluator) Compare(a, b *domain.Architecture) *Comparison {
	if a == nil {
		a = &domain.Architecture{}
	}
	if b == nil {
		b = &domain.Architecture{}
	}
	scoreA := e.Evaluate(a)
	scoreB := e.Evaluate(b)

	winner := TieWinner
	switch {
	case scoreA > scoreB:
		winner = label(a)
	case scoreB > scoreA:
		winner = label(b)
	}

	return &Comparison{
		ArchitectureAID:   a.ID,
		ArchitectureAName: a.Name,
		ScoreA:            scoreA,
		ParametersA:       heuristics.AggregateByParameterWithLinks(a.Components, a.Links),
		ArchitectureBID:   b.ID,
		ArchitectureBName: b.Name,
		ScoreB:            scoreB,
		ParametersB:       heuristics.AggregateByParameterWithLinks(b.Components, b.Links),
		ScoreDifference:   scoreA - scoreB,
		Winner:            winner,
	}
}

func label(a *domain.Architecture) string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
