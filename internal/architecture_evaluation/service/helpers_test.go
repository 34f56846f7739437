package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/evaluation"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/heuristics"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/repository"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/rules"
)

type fixture struct {
	mr      *miniredis.Miniredis
	catalog *CatalogService
	archs   *ArchitectureService
	history *repository.MemoryHistoryRepository
	cache   *repository.ReportCache
}

func setupServices(t *testing.T) *fixture {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	engine := rules.NewDefaultEngine()
	catalogRepo := repository.NewCatalogRepository(client)
	history := repository.NewMemoryHistoryRepository()
	cache := repository.NewReportCache(client, time.Minute)

	ResetMetrics()
	return &fixture{
		mr:      mr,
		catalog: NewCatalogService(catalogRepo, engine),
		archs: NewArchitectureService(ArchitectureDeps{
			Store:     repository.NewMemoryArchitectureRepository(),
			Catalog:   catalogRepo,
			Evaluator: evaluation.NewEvaluator(engine, heuristics.DefaultWeights()),
			Cache:     cache,
			History:   history,
		}),
		history: history,
		cache:   cache,
	}
}
