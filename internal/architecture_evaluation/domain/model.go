package domain

import "time"

// Properties is a free-form bag of scalar settings (replicas, region, ...).
type Properties map[string]any

func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// CanvasPosition is only used by the UI to redraw a saved design.
type CanvasPosition struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Component is a typed node. Type plus Subtype form a closed tagged variant;
// everything type-specific beyond that lives in Properties.
type Component struct {
	ID         string           `json:"id" yaml:"id"`
	Name       string           `json:"name" yaml:"name"`
	Type       ComponentType    `json:"type" yaml:"type"`
	Subtype    Subtype          `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Heuristics HeuristicProfile `json:"heuristics" yaml:"heuristics"`
	Properties Properties       `json:"properties,omitempty" yaml:"properties,omitempty"`
	Position   *CanvasPosition  `json:"position,omitempty" yaml:"position,omitempty"`
}

// Copy returns a deep copy of c under a new identity.
func (c *Component) Copy(newID string) *Component {
	out := &Component{
		ID:         newID,
		Name:       c.Name,
		Type:       c.Type,
		Subtype:    c.Subtype,
		Heuristics: c.Heuristics.Clone(),
		Properties: c.Properties.Clone(),
	}
	if c.Position != nil {
		pos := *c.Position
		out.Position = &pos
	}
	return out
}

// Link is a directed, typed edge. SourceID/TargetID mirror the resolved
// references so a link stays reconstructable when Source/Target are stripped.
type Link struct {
	ID         string           `json:"id" yaml:"id"`
	Source     *Component       `json:"source,omitempty" yaml:"-"`
	Target     *Component       `json:"target,omitempty" yaml:"-"`
	SourceID   string           `json:"source_id" yaml:"source_id"`
	TargetID   string           `json:"target_id" yaml:"target_id"`
	Type       LinkType         `json:"type" yaml:"type"`
	Heuristics HeuristicProfile `json:"heuristics" yaml:"heuristics"`
	Properties Properties       `json:"properties,omitempty" yaml:"properties,omitempty"`
}

func NewLink(id string, source, target *Component, t LinkType) *Link {
	l := &Link{ID: id, Type: t, Heuristics: HeuristicProfile{}}
	l.SetSource(source)
	l.SetTarget(target)
	return l
}

func (l *Link) SetSource(c *Component) {
	l.Source = c
	l.SourceID = ""
	if c != nil {
		l.SourceID = c.ID
	}
}

func (l *Link) SetTarget(c *Component) {
	l.Target = c
	l.TargetID = ""
	if c != nil {
		l.TargetID = c.ID
	}
}

// SourceRef prefers the stored id and falls back to the resolved reference.
func (l *Link) SourceRef() string {
	if l.SourceID != "" {
		return l.SourceID
	}
	if l.Source != nil {
		return l.Source.ID
	}
	return ""
}

func (l *Link) TargetRef() string {
	if l.TargetID != "" {
		return l.TargetID
	}
	if l.Target != nil {
		return l.Target.ID
	}
	return ""
}

// Touches reports whether componentID is either endpoint.
func (l *Link) Touches(componentID string) bool {
	return l.SourceRef() == componentID || l.TargetRef() == componentID
}

func (l *Link) CopyWith(newID string, source, target *Component) *Link {
	out := NewLink(newID, source, target, l.Type)
	out.Heuristics = l.Heuristics.Clone()
	out.Properties = l.Properties.Clone()
	return out
}

type Architecture struct {
	ID         string       `json:"id" yaml:"id"`
	Name       string       `json:"name" yaml:"name"`
	Components []*Component `json:"components" yaml:"components"`
	Links      []*Link      `json:"links" yaml:"links"`
	UserID     string       `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	QuestionID string       `json:"question_id,omitempty" yaml:"question_id,omitempty"`
	CreatedAt  time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" yaml:"updated_at"`
	Submitted  bool         `json:"submitted" yaml:"submitted"`
}

// Now is swapped in tests that assert on timestamps.
var Now = func() time.Time { return time.Now().UTC() }

func NewArchitecture(id, name string) *Architecture {
	now := Now()
	return &Architecture{
		ID:         id,
		Name:       name,
		Components: []*Component{},
		Links:      []*Link{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (a *Architecture) Touch() { a.UpdatedAt = Now() }

func (a *Architecture) AddComponent(c *Component) {
	a.Components = append(a.Components, c)
	a.Touch()
}

func (a *Architecture) AddLink(l *Link) {
	a.Links = append(a.Links, l)
	a.Touch()
}

func (a *Architecture) ComponentIndex() map[string]*Component {
	idx := make(map[string]*Component, len(a.Components))
	for _, c := range a.Components {
		if c != nil {
			idx[c.ID] = c
		}
	}
	return idx
}

func (a *Architecture) ComponentByID(id string) (*Component, bool) {
	for _, c := range a.Components {
		if c != nil && c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// ResolveLinks points every link's Source/Target at the architecture's own
// component objects. Endpoints that do not resolve are left as-is.
func (a *Architecture) ResolveLinks() {
	idx := a.ComponentIndex()
	for _, l := range a.Links {
		if l == nil {
			continue
		}
		if c, ok := idx[l.SourceRef()]; ok {
			l.SetSource(c)
		}
		if c, ok := idx[l.TargetRef()]; ok {
			l.SetTarget(c)
		}
	}
}

// Clone builds a fresh draft with new ids at every level. Links whose endpoints
// do not remap to a copied component are dropped and returned in skipped.
func (a *Architecture) Clone(name string, newID func() string) (clone *Architecture, skipped []*Link) {
	clone = NewArchitecture(newID(), name)

	remap := make(map[string]*Component, len(a.Components))
	for _, c := range a.Components {
		if c == nil {
			continue
		}
		cp := c.Copy(newID())
		clone.Components = append(clone.Components, cp)
		remap[c.ID] = cp
	}

	for _, l := range a.Links {
		if l == nil {
			continue
		}
		src, okS := remap[l.SourceRef()]
		tgt, okT := remap[l.TargetRef()]
		if !okS || !okT {
			skipped = append(skipped, l)
			continue
		}
		clone.Links = append(clone.Links, l.CopyWith(newID(), src, tgt))
	}
	return clone, skipped
}
