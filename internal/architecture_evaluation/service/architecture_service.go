package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/evaluation"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/graph/export"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/repository"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/rules"
)

// History triggers.
const (
	TriggerRequest   = "request"
	TriggerScheduled = "scheduled"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// ArchitectureService owns the architecture document lifecycle and runs
// evaluations over stored documents. Cache and history are optional.
type ArchitectureService struct {
	store     ArchitectureStore
	catalog   CatalogStore
	evaluator *evaluation.Evaluator
	cache     ReportCache
	history   HistoryStore
	newID     func() string
}

type ArchitectureDeps struct {
	Store     ArchitectureStore
	Catalog   CatalogStore
	Evaluator *evaluation.Evaluator
	Cache     ReportCache
	History   HistoryStore
}

func NewArchitectureService(dep ArchitectureDeps) *ArchitectureService {
	ev := dep.Evaluator
	if ev == nil {
		ev = evaluation.NewEvaluator(nil, nil)
	}
	return &ArchitectureService{
		store:     dep.Store,
		catalog:   dep.Catalog,
		evaluator: ev,
		cache:     dep.Cache,
		history:   dep.History,
		newID:     func() string { return uuid.New().String() },
	}
}

func (s *ArchitectureService) Rules() *rules.Engine { return s.evaluator.Rules() }

func (s *ArchitectureService) Create(ctx context.Context, name string) (*domain.Architecture, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrArchitectureNameNeeded
	}
	a := domain.NewArchitecture(s.newID(), name)
	if err := s.store.Save(ctx, a); err != nil {
		return nil, err
	}
	NewLogger(ctx).LogInfof("create_architecture", "architecture_id=%s name=%q", a.ID, a.Name)
	return a, nil
}

func (s *ArchitectureService) Get(ctx context.Context, id string) (*domain.Architecture, error) {
	return s.store.Get(ctx, id)
}

func (s *ArchitectureService) List(ctx context.Context) ([]*domain.Architecture, error) {
	return s.store.List(ctx)
}

func (s *ArchitectureService) ListByUser(ctx context.Context, userID string) ([]*domain.Architecture, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *ArchitectureService) ListByQuestion(ctx context.Context, questionID string) ([]*domain.Architecture, error) {
	return s.store.ListByQuestion(ctx, questionID)
}

func (s *ArchitectureService) ListSubmitted(ctx context.Context) ([]*domain.Architecture, error) {
	return s.store.ListSubmitted(ctx)
}

func (s *ArchitectureService) Rename(ctx context.Context, id, name string) (*domain.Architecture, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrArchitectureNameNeeded
	}
	return s.mutate(ctx, id, func(a *domain.Architecture) error {
		a.Name = name
		a.Touch()
		return nil
	})
}

// Save replaces the whole document, keeping identity, ownership and
// creation time of the stored one. Enum values and heuristic keys are
// normalized the same way the catalog endpoints do it. Links are re-resolved
// against the new component list.
func (s *ArchitectureService) Save(ctx context.Context, id string, in *domain.Architecture) (*domain.Architecture, error) {
	if in == nil {
		return nil, domain.ErrBodyRequired
	}
	components, err := normalizeComponents(in.Components)
	if err != nil {
		return nil, err
	}
	links, err := normalizeLinks(in.Links)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(a *domain.Architecture) error {
		if name := strings.TrimSpace(in.Name); name != "" {
			a.Name = name
		}
		a.Components = components
		a.Links = links
		a.ResolveLinks()
		a.Touch()
		return nil
	})
}

func (s *ArchitectureService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	if s.history != nil {
		if err := s.history.DeleteByArchitecture(ctx, id); err != nil {
			NewLogger(ctx).LogWarnf("delete_architecture", "architecture_id=%s history_cleanup_error=%v", id, err)
		}
	}
	return nil
}

// AddComponent attaches a catalog component to the architecture.
func (s *ArchitectureService) AddComponent(ctx context.Context, archID, componentID string) (*domain.Architecture, error) {
	c, err := s.catalog.GetComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, archID, func(a *domain.Architecture) error {
		if _, ok := a.ComponentByID(componentID); ok {
			return fmt.Errorf("component %s: %w", componentID, domain.ErrAlreadyAttached)
		}
		a.AddComponent(c)
		return nil
	})
}

// AddLink attaches a catalog link. Both endpoints must already be part of
// the architecture.
func (s *ArchitectureService) AddLink(ctx context.Context, archID, linkID string) (*domain.Architecture, error) {
	l, err := s.catalog.GetLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, archID, func(a *domain.Architecture) error {
		for _, existing := range a.Links {
			if existing != nil && existing.ID == linkID {
				return fmt.Errorf("link %s: %w", linkID, domain.ErrAlreadyAttached)
			}
		}
		src, ok := a.ComponentByID(l.SourceRef())
		if !ok {
			return domain.NotFound("component", l.SourceRef())
		}
		tgt, ok := a.ComponentByID(l.TargetRef())
		if !ok {
			return domain.NotFound("component", l.TargetRef())
		}
		l.SetSource(src)
		l.SetTarget(tgt)
		a.AddLink(l)
		return nil
	})
}

// Copy clones the architecture under new ids. An empty name becomes
// "<name> (Copy)".
func (s *ArchitectureService) Copy(ctx context.Context, id, newName string) (*domain.Architecture, error) {
	src, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(newName)
	if name == "" {
		name = src.Name + " (Copy)"
	}
	clone, skipped := src.Clone(name, s.newID)
	if err := s.store.Save(ctx, clone); err != nil {
		return nil, err
	}
	log := NewLogger(ctx)
	for _, l := range skipped {
		log.LogWarnf("copy_architecture", "architecture_id=%s dropped_link=%s reason=dangling_endpoint", id, l.ID)
	}
	log.LogInfof("copy_architecture", "architecture_id=%s copy_id=%s", id, clone.ID)
	return clone, nil
}

func (s *ArchitectureService) Submit(ctx context.Context, id, userID, questionID string) (*domain.Architecture, error) {
	return s.mutate(ctx, id, func(a *domain.Architecture) error {
		a.UserID = userID
		a.QuestionID = questionID
		a.Submitted = true
		a.Touch()
		return nil
	})
}

func (s *ArchitectureService) Evaluate(ctx context.Context, id string) (float64, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.evaluator.Evaluate(a), nil
}

// EvaluateDetailed serves a cached report when one exists. Fresh reports are
// cached and appended to the history.
func (s *ArchitectureService) EvaluateDetailed(ctx context.Context, id string) (*evaluation.Report, error) {
	if s.cache != nil {
		r, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			NewLogger(ctx).LogWarnf("evaluate_detailed", "architecture_id=%s cache_error=%v", id, err)
		}
		if ok {
			recordCacheHit()
			return r, nil
		}
		recordCacheMiss()
	}

	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.evaluateAndRecord(ctx, a, TriggerRequest), nil
}

// Reevaluate ignores the cache and always records a fresh result.
func (s *ArchitectureService) Reevaluate(ctx context.Context, a *domain.Architecture, trigger string) *evaluation.Report {
	return s.evaluateAndRecord(ctx, a, trigger)
}

// ReevaluateSubmitted refreshes the report of every submitted architecture.
// It stops early only when ctx is cancelled.
func (s *ArchitectureService) ReevaluateSubmitted(ctx context.Context) (int, error) {
	subs, err := s.store.ListSubmitted(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range subs {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		s.evaluateAndRecord(ctx, a, TriggerScheduled)
		n++
	}
	return n, nil
}

func (s *ArchitectureService) evaluateAndRecord(ctx context.Context, a *domain.Architecture, trigger string) *evaluation.Report {
	start := time.Now()
	r := s.evaluator.EvaluateDetailed(a)
	recordEvaluation(time.Since(start))

	log := NewLogger(ctx)
	log.LogInfof("evaluate_detailed", "architecture_id=%s score=%.2f valid=%t bottlenecks=%d trigger=%s",
		a.ID, r.OverallScore, r.Valid, len(r.Bottlenecks), trigger)

	if s.cache != nil {
		if err := s.cache.Put(ctx, r); err != nil {
			log.LogWarnf("evaluate_detailed", "architecture_id=%s cache_error=%v", a.ID, err)
		} else if s.changedSince(ctx, a) {
			// A mutation landed while we were evaluating; its invalidation may
			// have run before our Put.
			s.invalidate(ctx, a.ID)
		}
	}
	if s.history != nil {
		if err := s.history.Append(ctx, repository.NewHistoryEntry(r, trigger)); err != nil {
			log.LogWarnf("evaluate_detailed", "architecture_id=%s history_error=%v", a.ID, err)
		}
	}
	return r
}

// History lists the newest evaluations first. limit is clamped to
// [1, MaxHistoryLimit]; zero or negative means DefaultHistoryLimit.
func (s *ArchitectureService) History(ctx context.Context, id string, limit int) ([]*repository.HistoryEntry, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	if s.history == nil {
		return []*repository.HistoryEntry{}, nil
	}
	return s.history.ListByArchitecture(ctx, id, limit)
}

func (s *ArchitectureService) Validate(ctx context.Context, id string) (rules.ValidationResult, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return rules.ValidationResult{}, err
	}
	recordValidation()
	return s.evaluator.Rules().ValidateArchitecture(a), nil
}

func (s *ArchitectureService) Compare(ctx context.Context, idA, idB string) (*evaluation.Comparison, error) {
	a, err := s.store.Get(ctx, idA)
	if err != nil {
		return nil, err
	}
	b, err := s.store.Get(ctx, idB)
	if err != nil {
		return nil, err
	}
	recordComparison()
	return s.evaluator.Compare(a, b), nil
}

// Visualize renders the architecture as a Graphviz DOT document.
func (s *ArchitectureService) Visualize(ctx context.Context, id string) (string, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return export.ToDOT(a, s.evaluator.Rules()), nil
}

// mutate loads, applies fn, saves and drops the cached report.
func (s *ArchitectureService) mutate(ctx context.Context, id string, fn func(*domain.Architecture) error) (*domain.Architecture, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return a, nil
}

// changedSince reports whether the stored document moved past the copy that
// was evaluated. A read failure counts as changed.
func (s *ArchitectureService) changedSince(ctx context.Context, evaluated *domain.Architecture) bool {
	current, err := s.store.Get(ctx, evaluated.ID)
	if err != nil {
		return true
	}
	return !current.UpdatedAt.Equal(evaluated.UpdatedAt)
}

func (s *ArchitectureService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		NewLogger(ctx).LogWarnf("invalidate_report", "architecture_id=%s error=%v", id, err)
	}
}

func normalizeComponents(in []*domain.Component) ([]*domain.Component, error) {
	out := make([]*domain.Component, 0, len(in))
	for _, c := range in {
		if c == nil {
			continue
		}
		t, err := domain.ParseComponentType(string(c.Type))
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.ID, err)
		}
		sub, err := domain.ParseSubtype(t, string(c.Subtype))
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.ID, err)
		}
		h, err := c.Heuristics.Normalize()
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", c.ID, err)
		}
		c.Type, c.Subtype, c.Heuristics = t, sub, h
		out = append(out, c)
	}
	return out, nil
}

func normalizeLinks(in []*domain.Link) ([]*domain.Link, error) {
	out := make([]*domain.Link, 0, len(in))
	for _, l := range in {
		if l == nil {
			continue
		}
		lt, err := domain.ParseLinkType(string(l.Type))
		if err != nil {
			return nil, fmt.Errorf("link %s: %w", l.ID, err)
		}
		h, err := l.Heuristics.Normalize()
		if err != nil {
			return nil, fmt.Errorf("link %s: %w", l.ID, err)
		}
		l.Type, l.Heuristics = lt, h
		out = append(out, l)
	}
	return out, nil
}

// IsClientError reports whether err stems from bad input rather than a
// backend failure.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrArchitectureNameNeeded) ||
		errors.Is(err, domain.ErrBodyRequired) ||
		errors.Is(err, domain.ErrInvalidProfile) ||
		errors.Is(err, domain.ErrInvalidComponentType) ||
		errors.Is(err, domain.ErrInvalidSubtype) ||
		errors.Is(err, domain.ErrInvalidLinkType)
}
