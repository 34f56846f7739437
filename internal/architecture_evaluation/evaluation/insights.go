package evaluation

import (
	"fmt"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

type band struct {
	param     domain.Parameter
	warnBelow float64
	praiseAt  float64
	warn      string
	praise    string
}

var parameterBands = []band{
	{domain.ParamLatency, 5.0, 8.0,
		"Low latency score. Consider adding caching layers or using faster storage.",
		"Excellent latency characteristics. System should be responsive."},
	{domain.ParamAvailability, 6.0, 8.5,
		"Low availability score. Add replication and redundancy for high availability.",
		"Strong availability design. System should handle failures well."},
	{domain.ParamScalability, 6.0, 8.5,
		"Limited scalability. Consider using load balancers and horizontal scaling.",
		"Highly scalable architecture. Can handle traffic growth effectively."},
	{domain.ParamCost, 5.0, 7.5,
		"High cost architecture. Review component choices for cost optimization.",
		"Cost-effective architecture design."},
}

// Insights runs every check in order and collects what fires. Parameters with
// no score are skipped.
func Insights(overall float64, componentCount, linkCount int, params map[domain.Parameter]float64, bottlenecks []BottleneckInfo) []string {
	out := []string{}

	switch {
	case overall >= 8.0:
		out = append(out, "Excellent architecture design with strong performance characteristics.")
	case overall >= 6.5:
		out = append(out, "Good architecture design. Consider optimizations for better performance.")
	case overall >= 5.0:
		out = append(out, "Architecture is functional but has room for improvement.")
	default:
		out = append(out, "Architecture needs significant improvements. Review component choices and connections.")
	}

	switch {
	case componentCount == 0:
		out = append(out, "Architecture has no components. Add components to build your system.")
	case componentCount == 1:
		out = append(out, "Architecture has only one component. Consider adding more components for scalability.")
	case componentCount > 15:
		out = append(out, fmt.Sprintf("Architecture is complex with %d components. Ensure maintainability.", componentCount))
	}

	if linkCount == 0 && componentCount > 1 {
		out = append(out, "Components are not connected. Add links to establish data flow.")
	} else if linkCount > 0 && componentCount > 0 {
		ratio := float64(linkCount) / float64(componentCount)
		if ratio < 1.0 {
			out = append(out, "Architecture is under-connected. Consider adding more links for redundancy.")
		} else if ratio > 4.0 {
			out = append(out, "Architecture may be over-connected. Simplify if possible to reduce complexity.")
		}
	}

	for _, b := range parameterBands {
		v, ok := params[b.param]
		if !ok {
			continue
		}
		if v < b.warnBelow {
			out = append(out, b.warn)
		} else if v >= b.praiseAt {
			out = append(out, b.praise)
		}
	}

	for _, b := range bottlenecks {
		out = append(out, fmt.Sprintf("%s (%s) is a potential bottleneck with %d connections. Consider load balancing or caching.",
			b.ComponentName, b.ComponentType, b.TotalConnections()))
	}
	return out
}
