package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/heuristics"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/rules"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/topology"
)

// CreateComponentInput describes a new catalog component. A nil Heuristics
// seeds the default profile for the type and subtype.
type CreateComponentInput struct {
	Name       string
	Type       domain.ComponentType
	Subtype    domain.Subtype
	Properties domain.Properties
	Heuristics domain.HeuristicProfile
	Position   *domain.CanvasPosition
}

// LinkCheck is the outcome of a dry-run link validation.
type LinkCheck struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// CatalogService manages standalone components and links, the building
// blocks that architectures reference.
type CatalogService struct {
	store CatalogStore
	rules *rules.Engine
	newID func() string
}

func NewCatalogService(store CatalogStore, engine *rules.Engine) *CatalogService {
	if engine == nil {
		engine = rules.NewDefaultEngine()
	}
	return &CatalogService{
		store: store,
		rules: engine,
		newID: func() string { return uuid.New().String() },
	}
}

func (s *CatalogService) CreateComponent(ctx context.Context, in CreateComponentInput) (*domain.Component, error) {
	if !in.Type.Valid() {
		return nil, &domain.ValueError{Kind: "component type", Value: string(in.Type), Err: domain.ErrInvalidComponentType}
	}
	if !in.Type.Accepts(in.Subtype) {
		return nil, &domain.ValueError{Kind: "subtype of " + string(in.Type), Value: string(in.Subtype), Err: domain.ErrInvalidSubtype}
	}
	profile := in.Heuristics
	if profile == nil {
		profile = heuristics.DefaultProfile(in.Type, in.Subtype)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	c := &domain.Component{
		ID:         s.newID(),
		Name:       strings.TrimSpace(in.Name),
		Type:       in.Type,
		Subtype:    in.Subtype,
		Heuristics: profile.Clone(),
		Properties: in.Properties.Clone(),
		Position:   in.Position,
	}
	if c.Name == "" {
		c.Name = defaultComponentName(c)
	}
	if err := s.store.SaveComponent(ctx, c); err != nil {
		return nil, err
	}
	NewLogger(ctx).LogInfof("create_component", "component_id=%s type=%s subtype=%s", c.ID, c.Type, c.Subtype)
	return c, nil
}

func defaultComponentName(c *domain.Component) string {
	label := strings.ToLower(strings.ReplaceAll(string(c.Type), "_", "-"))
	return label + "-" + c.ID[:min(8, len(c.ID))]
}

func (s *CatalogService) GetComponent(ctx context.Context, id string) (*domain.Component, error) {
	return s.store.GetComponent(ctx, id)
}

func (s *CatalogService) ListComponents(ctx context.Context) ([]*domain.Component, error) {
	return s.store.ListComponents(ctx)
}

func (s *CatalogService) ListComponentsByType(ctx context.Context, t domain.ComponentType) ([]*domain.Component, error) {
	return s.store.ListComponentsByType(ctx, t)
}

func (s *CatalogService) ComponentExists(ctx context.Context, id string) (bool, error) {
	return s.store.ComponentExists(ctx, id)
}

func (s *CatalogService) CountComponents(ctx context.Context) (int64, error) {
	return s.store.CountComponents(ctx)
}

// ComponentUpdate carries the fields to change; nil fields are left alone.
type ComponentUpdate struct {
	Name       *string
	Subtype    *domain.Subtype
	Properties domain.Properties
	Heuristics domain.HeuristicProfile
	Position   *domain.CanvasPosition
}

func (s *CatalogService) UpdateComponent(ctx context.Context, id string, u ComponentUpdate) (*domain.Component, error) {
	c, err := s.store.GetComponent(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Subtype != nil {
		if !c.Type.Accepts(*u.Subtype) {
			return nil, &domain.ValueError{Kind: "subtype of " + string(c.Type), Value: string(*u.Subtype), Err: domain.ErrInvalidSubtype}
		}
		c.Subtype = *u.Subtype
	}
	if u.Properties != nil {
		c.Properties = u.Properties.Clone()
	}
	if u.Heuristics != nil {
		if err := u.Heuristics.Validate(); err != nil {
			return nil, err
		}
		c.Heuristics = u.Heuristics.Clone()
	}
	if u.Position != nil {
		pos := *u.Position
		c.Position = &pos
	}
	if err := s.store.SaveComponent(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComponent removes every link touching the component before the
// component itself.
func (s *CatalogService) DeleteComponent(ctx context.Context, id string) error {
	if _, err := s.store.GetComponent(ctx, id); err != nil {
		return err
	}
	links, err := s.store.LinksForComponent(ctx, id)
	if err != nil {
		return err
	}
	for _, l := range links {
		if err := s.store.DeleteLink(ctx, l.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete link %s: %w", l.ID, err)
		}
	}
	if err := s.store.DeleteComponent(ctx, id); err != nil {
		return err
	}
	NewLogger(ctx).LogInfof("delete_component", "component_id=%s links_removed=%d", id, len(links))
	return nil
}

func (s *CatalogService) Subtypes(t domain.ComponentType) []domain.Subtype {
	return domain.SubtypesOf(t)
}

func (s *CatalogService) DefaultHeuristics(t domain.ComponentType, sub domain.Subtype) domain.HeuristicProfile {
	return heuristics.DefaultProfile(t, sub)
}

func (s *CatalogService) DefaultLinkHeuristics(t domain.LinkType) domain.HeuristicProfile {
	return heuristics.DefaultLinkProfile(t)
}

// CreateLink resolves both endpoints, checks the rule table and stores the
// link with default heuristics for its type.
func (s *CatalogService) CreateLink(ctx context.Context, sourceID, targetID string, t domain.LinkType) (*domain.Link, error) {
	if !t.Valid() {
		return nil, &domain.ValueError{Kind: "link type", Value: string(t), Err: domain.ErrInvalidLinkType}
	}
	src, err := s.store.GetComponent(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	tgt, err := s.store.GetComponent(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if ok, reason := s.rules.Explain(src, tgt, t); !ok {
		recordLinkRejected()
		NewLogger(ctx).LogWarnf("create_link", "source=%s target=%s type=%s rejected=%q", sourceID, targetID, t, reason)
		return nil, &domain.ConnectionError{Reason: reason}
	}

	l := domain.NewLink(s.newID(), src, tgt, t)
	l.Heuristics = heuristics.DefaultLinkProfile(t)
	if err := s.store.SaveLink(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ValidateLink is CreateLink without the write.
func (s *CatalogService) ValidateLink(ctx context.Context, sourceID, targetID string, t domain.LinkType) (LinkCheck, error) {
	src, err := s.store.GetComponent(ctx, sourceID)
	if errors.Is(err, domain.ErrNotFound) {
		return LinkCheck{Reason: "source component not found"}, nil
	}
	if err != nil {
		return LinkCheck{}, err
	}
	tgt, err := s.store.GetComponent(ctx, targetID)
	if errors.Is(err, domain.ErrNotFound) {
		return LinkCheck{Reason: "target component not found"}, nil
	}
	if err != nil {
		return LinkCheck{}, err
	}
	if ok, reason := s.rules.Explain(src, tgt, t); !ok {
		return LinkCheck{Reason: reason}, nil
	}
	return LinkCheck{Valid: true, Reason: "connection is valid"}, nil
}

func (s *CatalogService) SuggestLinkTypes(ctx context.Context, sourceID, targetID string) ([]domain.LinkType, error) {
	src, err := s.store.GetComponent(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	tgt, err := s.store.GetComponent(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return s.rules.SuggestLinkTypes(src, tgt), nil
}

// GetLink returns the link with Source and Target resolved when the
// endpoints still exist.
func (s *CatalogService) GetLink(ctx context.Context, id string) (*domain.Link, error) {
	l, err := s.store.GetLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolve(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *CatalogService) ListLinks(ctx context.Context) ([]*domain.Link, error) {
	return s.store.ListLinks(ctx)
}

func (s *CatalogService) LinksForComponent(ctx context.Context, componentID string) ([]*domain.Link, error) {
	if _, err := s.store.GetComponent(ctx, componentID); err != nil {
		return nil, err
	}
	return s.store.LinksForComponent(ctx, componentID)
}

func (s *CatalogService) DeleteLink(ctx context.Context, id string) error {
	return s.store.DeleteLink(ctx, id)
}

func (s *CatalogService) UpdateLinkHeuristics(ctx context.Context, id string, h domain.HeuristicProfile) (*domain.Link, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	l, err := s.store.GetLink(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Heuristics = h.Clone()
	if err := s.store.SaveLink(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *CatalogService) ConnectionStats(ctx context.Context, componentID string) (topology.ConnectionStats, error) {
	if _, err := s.store.GetComponent(ctx, componentID); err != nil {
		return topology.ConnectionStats{}, err
	}
	return s.store.ConnectionStats(ctx, componentID)
}

func (s *CatalogService) resolve(ctx context.Context, l *domain.Link) error {
	for _, end := range []struct {
		id  string
		set func(*domain.Component)
	}{
		{l.SourceID, l.SetSource},
		{l.TargetID, l.SetTarget},
	} {
		c, err := s.store.GetComponent(ctx, end.id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		end.set(c)
	}
	return nil
}
