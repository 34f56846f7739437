package topology

import "github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"

type ConnectionStats struct {
	Incoming int `json:"incoming"`
	Outgoing int `json:"outgoing"`
}

func (s ConnectionStats) Total() int { return s.Incoming + s.Outgoing }

// StatsProvider answers connection counts for a component id.
type StatsProvider interface {
	ConnectionStats(componentID string) ConnectionStats
}

// Index is an adjacency view over a link set. Links are indexed by their
// endpoint ids whether or not the endpoints resolve to components.
type Index struct {
	Out map[string][]*domain.Link
	In  map[string][]*domain.Link
}

func NewIndex(links []*domain.Link) *Index {
	idx := &Index{
		Out: map[string][]*domain.Link{},
		In:  map[string][]*domain.Link{},
	}
	for _, l := range links {
		idx.Add(l)
	}
	return idx
}

// FromArchitecture indexes the architecture's own links.
func FromArchitecture(a *domain.Architecture) *Index {
	if a == nil {
		return NewIndex(nil)
	}
	return NewIndex(a.Links)
}

func (x *Index) Add(l *domain.Link) {
	if l == nil {
		return
	}
	if src := l.SourceRef(); src != "" {
		x.Out[src] = append(x.Out[src], l)
	}
	if tgt := l.TargetRef(); tgt != "" {
		x.In[tgt] = append(x.In[tgt], l)
	}
}

func (x *Index) ConnectionStats(componentID string) ConnectionStats {
	return ConnectionStats{
		Incoming: len(x.In[componentID]),
		Outgoing: len(x.Out[componentID]),
	}
}

// Touching returns every link with componentID at either end, outgoing first.
// A self-loop is returned once.
func (x *Index) Touching(componentID string) []*domain.Link {
	out := make([]*domain.Link, 0, len(x.Out[componentID])+len(x.In[componentID]))
	seen := map[*domain.Link]bool{}
	for _, l := range x.Out[componentID] {
		seen[l] = true
		out = append(out, l)
	}
	for _, l := range x.In[componentID] {
		if !seen[l] {
			out = append(out, l)
		}
	}
	return out
}
