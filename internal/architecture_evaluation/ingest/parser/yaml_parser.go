package parser

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/heuristics"
)

// YArchitecture is the on-disk form (YAML or JSON) accepted by the worker.
// Enum values are case-insensitive; heuristics left out are
// seeded from the defaults for the component or link type.
type YArchitecture struct {
	ID         string         `yaml:"id,omitempty" json:"id,omitempty"`
	Name       string         `yaml:"name" json:"name"`
	UserID     string         `yaml:"user_id,omitempty" json:"user_id,omitempty"`
	QuestionID string         `yaml:"question_id,omitempty" json:"question_id,omitempty"`
	Components []YComponent   `yaml:"components" json:"components"`
	Links      []YLink        `yaml:"links,omitempty" json:"links,omitempty"`
	Metadata   map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

type YComponent struct {
	ID         string             `yaml:"id" json:"id"`
	Name       string             `yaml:"name,omitempty" json:"name,omitempty"`
	Type       string             `yaml:"type" json:"type"`
	Subtype    string             `yaml:"subtype,omitempty" json:"subtype,omitempty"`
	Heuristics map[string]float64 `yaml:"heuristics,omitempty" json:"heuristics,omitempty"`
	Properties map[string]any     `yaml:"properties,omitempty" json:"properties,omitempty"`
}

type YLink struct {
	ID         string             `yaml:"id,omitempty" json:"id,omitempty"`
	From       string             `yaml:"from" json:"from"`
	To         string             `yaml:"to" json:"to"`
	Type       string             `yaml:"type" json:"type"`
	Heuristics map[string]float64 `yaml:"heuristics,omitempty" json:"heuristics,omitempty"`
	Properties map[string]any     `yaml:"properties,omitempty" json:"properties,omitempty"`
}

func ParseYAML(path string) (*YArchitecture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAMLBytes(b)
}

func ParseYAMLBytes(b []byte) (*YArchitecture, error) {
	var s YArchitecture
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func ParseYAMLString(s string) (*YArchitecture, error) {
	return ParseYAMLBytes([]byte(s))
}

// ToArchitecture maps the parsed document onto the domain model. Links are
// kept even when an endpoint is unknown so that validation can report them.
func (y *YArchitecture) ToArchitecture() (*domain.Architecture, error) {
	name := strings.TrimSpace(y.Name)
	if name == "" {
		return nil, domain.ErrArchitectureNameNeeded
	}
	id := y.ID
	if id == "" {
		id = slug(name)
	}
	a := domain.NewArchitecture(id, name)
	a.UserID = y.UserID
	a.QuestionID = y.QuestionID

	seen := map[string]bool{}
	for i, yc := range y.Components {
		if yc.ID == "" {
			return nil, fmt.Errorf("components[%d]: id required", i)
		}
		if seen[yc.ID] {
			return nil, fmt.Errorf("components[%d]: duplicate id %q", i, yc.ID)
		}
		seen[yc.ID] = true

		ct, err := domain.ParseComponentType(yc.Type)
		if err != nil {
			return nil, fmt.Errorf("components[%d]: %w", i, err)
		}
		sub, err := domain.ParseSubtype(ct, yc.Subtype)
		if err != nil {
			return nil, fmt.Errorf("components[%d]: %w", i, err)
		}
		h := heuristics.DefaultProfile(ct, sub)
		if yc.Heuristics != nil {
			if h, err = profileOf(yc.Heuristics); err != nil {
				return nil, fmt.Errorf("components[%d]: %w", i, err)
			}
		}
		c := &domain.Component{
			ID:         yc.ID,
			Name:       yc.Name,
			Type:       ct,
			Subtype:    sub,
			Heuristics: h,
			Properties: domain.Properties(yc.Properties),
		}
		if c.Name == "" {
			c.Name = c.ID
		}
		a.Components = append(a.Components, c)
	}

	for i, yl := range y.Links {
		lt, err := domain.ParseLinkType(yl.Type)
		if err != nil {
			return nil, fmt.Errorf("links[%d]: %w", i, err)
		}
		lid := yl.ID
		if lid == "" {
			lid = fmt.Sprintf("%s-%s-%d", yl.From, yl.To, i)
		}
		l := &domain.Link{ID: lid, SourceID: yl.From, TargetID: yl.To, Type: lt, Properties: domain.Properties(yl.Properties)}
		l.Heuristics = heuristics.DefaultLinkProfile(lt)
		if yl.Heuristics != nil {
			if l.Heuristics, err = profileOf(yl.Heuristics); err != nil {
				return nil, fmt.Errorf("links[%d]: %w", i, err)
			}
		}
		a.Links = append(a.Links, l)
	}

	a.ResolveLinks()
	return a, nil
}

func profileOf(in map[string]float64) (domain.HeuristicProfile, error) {
	h := make(domain.HeuristicProfile, len(in))
	for k, v := range in {
		p, ok := domain.ParseParameter(k)
		if !ok {
			return nil, fmt.Errorf("%w: empty parameter name", domain.ErrInvalidProfile)
		}
		h[p] = v
	}
	return h, h.Validate()
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}), "-")
}
