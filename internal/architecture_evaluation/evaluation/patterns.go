package evaluation

import "github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"

// Pattern is a presence-based recommendation over the component types of an
// architecture.
type Pattern struct {
	Name    string
	Message string
	Match   func(types map[domain.ComponentType]int, componentCount int) bool
}

var patterns = []Pattern{
	{
		Name:    "database_without_cache",
		Message: "Consider adding a cache layer to improve database performance.",
		Match: func(types map[domain.ComponentType]int, _ int) bool {
			return types[domain.ComponentDatabase] > 0 && types[domain.ComponentCache] == 0
		},
	},
	{
		Name:    "missing_load_balancer",
		Message: "Consider adding a load balancer for better traffic distribution.",
		Match: func(types map[domain.ComponentType]int, n int) bool {
			return n > 3 && types[domain.ComponentLoadBalancer] == 0
		},
	},
	{
		Name:    "database_cache_queue",
		Message: "Architecture includes database, cache, and queue. Good for scalable systems.",
		Match: func(types map[domain.ComponentType]int, _ int) bool {
			return types[domain.ComponentDatabase] > 0 && types[domain.ComponentCache] > 0 && types[domain.ComponentQueue] > 0
		},
	},
}

func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}

// DetectPatterns returns the message of every matching pattern, in
// declaration order.
func DetectPatterns(components []*domain.Component) []string {
	types := map[domain.ComponentType]int{}
	n := 0
	for _, c := range components {
		if c == nil {
			continue
		}
		types[c.Type]++
		n++
	}
	out := []string{}
	for _, p := range patterns {
		if p.Match(types, n) {
			out = append(out, p.Message)
		}
	}
	return out
}
