package service

import (
	"context"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/evaluation"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/repository"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/topology"
)

type ArchitectureStore interface {
	Save(ctx context.Context, a *domain.Architecture) error
	Get(ctx context.Context, id string) (*domain.Architecture, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Architecture, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Architecture, error)
	ListByQuestion(ctx context.Context, questionID string) ([]*domain.Architecture, error)
	ListSubmitted(ctx context.Context) ([]*domain.Architecture, error)
}

type CatalogStore interface {
	SaveComponent(ctx context.Context, c *domain.Component) error
	GetComponent(ctx context.Context, id string) (*domain.Component, error)
	ComponentExists(ctx context.Context, id string) (bool, error)
	CountComponents(ctx context.Context) (int64, error)
	ListComponents(ctx context.Context) ([]*domain.Component, error)
	ListComponentsByType(ctx context.Context, t domain.ComponentType) ([]*domain.Component, error)
	DeleteComponent(ctx context.Context, id string) error

	SaveLink(ctx context.Context, l *domain.Link) error
	GetLink(ctx context.Context, id string) (*domain.Link, error)
	ListLinks(ctx context.Context) ([]*domain.Link, error)
	LinksForComponent(ctx context.Context, componentID string) ([]*domain.Link, error)
	DeleteLink(ctx context.Context, id string) error
	ConnectionStats(ctx context.Context, componentID string) (topology.ConnectionStats, error)
}

type ReportCache interface {
	Get(ctx context.Context, architectureID string) (*evaluation.Report, bool, error)
	Put(ctx context.Context, r *evaluation.Report) error
	Invalidate(ctx context.Context, architectureID string) error
}

type HistoryStore interface {
	Append(ctx context.Context, e *repository.HistoryEntry) error
	ListByArchitecture(ctx context.Context, architectureID string, limit int) ([]*repository.HistoryEntry, error)
	DeleteByArchitecture(ctx context.Context, architectureID string) error
}

var (
	_ ArchitectureStore = (*repository.ArchitectureRepository)(nil)
	_ ArchitectureStore = (*repository.MemoryArchitectureRepository)(nil)
	_ CatalogStore      = (*repository.CatalogRepository)(nil)
	_ ReportCache       = (*repository.ReportCache)(nil)
	_ HistoryStore      = (*repository.HistoryRepository)(nil)
	_ HistoryStore      = (*repository.MemoryHistoryRepository)(nil)
)
