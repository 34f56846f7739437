package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

func TestInsights_OverallBands(t *testing.T) {
	cases := map[float64]string{
		9.0: "Excellent architecture design with strong performance characteristics.",
		8.0: "Excellent architecture design with strong performance characteristics.",
		7.0: "Good architecture design. Consider optimizations for better performance.",
		5.0: "Architecture is functional but has room for improvement.",
		4.9: "Architecture needs significant improvements. Review component choices and connections.",
	}
	for score, want := range cases {
		got := Insights(score, 3, 3, nil, nil)
		assert.Equal(t, want, got[0], "score %v", score)
	}
}

func TestInsights_Counts(t *testing.T) {
	assert.Contains(t, Insights(7, 1, 0, nil, nil),
		"Architecture has only one component. Consider adding more components for scalability.")
	assert.Contains(t, Insights(7, 16, 20, nil, nil),
		"Architecture is complex with 16 components. Ensure maintainability.")
	assert.Contains(t, Insights(7, 3, 0, nil, nil),
		"Components are not connected. Add links to establish data flow.")
	assert.Contains(t, Insights(7, 4, 2, nil, nil),
		"Architecture is under-connected. Consider adding more links for redundancy.")
	assert.Contains(t, Insights(7, 2, 9, nil, nil),
		"Architecture may be over-connected. Simplify if possible to reduce complexity.")

	balanced := Insights(7, 4, 4, nil, nil)
	assert.Len(t, balanced, 1)
}

func TestInsights_Parameters(t *testing.T) {
	low := map[domain.Parameter]float64{
		domain.ParamLatency: 4.9, domain.ParamAvailability: 5.9, domain.ParamScalability: 5.9, domain.ParamCost: 4.9,
	}
	got := Insights(7, 4, 4, low, nil)
	assert.Equal(t, []string{
		"Good architecture design. Consider optimizations for better performance.",
		"Low latency score. Consider adding caching layers or using faster storage.",
		"Low availability score. Add replication and redundancy for high availability.",
		"Limited scalability. Consider using load balancers and horizontal scaling.",
		"High cost architecture. Review component choices for cost optimization.",
	}, got)

	high := map[domain.Parameter]float64{
		domain.ParamLatency: 8, domain.ParamAvailability: 8.5, domain.ParamScalability: 8.5, domain.ParamCost: 7.5,
	}
	got = Insights(7, 4, 4, high, nil)
	assert.Len(t, got, 5)
	assert.Contains(t, got, "Cost-effective architecture design.")

	middling := map[domain.Parameter]float64{domain.ParamLatency: 6}
	assert.Len(t, Insights(7, 4, 4, middling, nil), 1)
}

func TestInsights_OneLinePerBottleneck(t *testing.T) {
	got := Insights(7, 4, 4, nil, []BottleneckInfo{
		{ComponentName: "a", ComponentType: domain.ComponentDatabase, Incoming: 4, Outgoing: 3},
		{ComponentName: "b", ComponentType: domain.ComponentCache, Incoming: 9},
	})
	assert.Equal(t, []string{
		"Good architecture design. Consider optimizations for better performance.",
		"a (DATABASE) is a potential bottleneck with 7 connections. Consider load balancing or caching.",
		"b (CACHE) is a potential bottleneck with 9 connections. Consider load balancing or caching.",
	}, got)
}

func TestDetectPatterns(t *testing.T) {
	c := func(t domain.ComponentType) *domain.Component { return &domain.Component{Type: t} }

	assert.Equal(t, []string{"Consider adding a cache layer to improve database performance."},
		DetectPatterns([]*domain.Component{c(domain.ComponentDatabase)}))

	assert.Equal(t, []string{"Consider adding a load balancer for better traffic distribution."},
		DetectPatterns([]*domain.Component{c(domain.ComponentAPIService), c(domain.ComponentAPIService), c(domain.ComponentQueue), c(domain.ComponentStorage)}))

	assert.Equal(t, []string{"Architecture includes database, cache, and queue. Good for scalable systems."},
		DetectPatterns([]*domain.Component{c(domain.ComponentDatabase), c(domain.ComponentCache), c(domain.ComponentQueue)}))

	assert.Empty(t, DetectPatterns(nil))
	assert.Len(t, Patterns(), 3)
}
