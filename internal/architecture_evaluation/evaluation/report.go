package evaluation

import (
	"time"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

// TieWinner is reported when both architectures score exactly the same.
const TieWinner = "Tie"

type BottleneckInfo struct {
	ComponentID   string               `json:"component_id" yaml:"component_id"`
	ComponentName string               `json:"component_name" yaml:"component_name"`
	ComponentType domain.ComponentType `json:"component_type" yaml:"component_type"`
	Score         float64              `json:"bottleneck_score" yaml:"bottleneck_score"`
	Incoming      int                  `json:"incoming_connections" yaml:"incoming_connections"`
	Outgoing      int                  `json:"outgoing_connections" yaml:"outgoing_connections"`
}

func (b BottleneckInfo) TotalConnections() int { return b.Incoming + b.Outgoing }

type Report struct {
	ArchitectureID   string                       `json:"architecture_id" yaml:"architecture_id"`
	ArchitectureName string                       `json:"architecture_name" yaml:"architecture_name"`
	OverallScore     float64                      `json:"overall_score" yaml:"overall_score"`
	ComponentCount   int                          `json:"component_count" yaml:"component_count"`
	LinkCount        int                          `json:"link_count" yaml:"link_count"`
	ParameterScores  map[domain.Parameter]float64 `json:"parameter_scores" yaml:"parameter_scores"`
	Bottlenecks      []BottleneckInfo             `json:"bottlenecks" yaml:"bottlenecks"`
	Insights         []string                     `json:"insights" yaml:"insights"`
	Valid            bool                         `json:"valid" yaml:"valid"`
	Violations       []string                     `json:"violations" yaml:"violations"`
	Warnings         []string                     `json:"warnings" yaml:"warnings"`
	EvaluatedAt      time.Time                    `json:"evaluated_at" yaml:"evaluated_at"`
}

type Comparison struct {
	ArchitectureAID   string                       `json:"architecture_a_id"`
	ArchitectureAName string                       `json:"architecture_a_name"`
	ScoreA            float64                      `json:"score_a"`
	ParametersA       map[domain.Parameter]float64 `json:"parameters_a"`
	ArchitectureBID   string                       `json:"architecture_b_id"`
	ArchitectureBName string                       `json:"architecture_b_name"`
	ScoreB            float64                      `json:"score_b"`
	ParametersB       map[domain.Parameter]float64 `json:"parameters_b"`
	// ScoreDifference is ScoreA - ScoreB.
	ScoreDifference float64 `json:"score_difference"`
	Winner          string  `json:"winner"`
}
