package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/evaluation"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/repository"
)

// buildShop stores api -> orders (QUERY) and orders -> sessions (SYNC_CALL,
// denied) and returns the architecture id.
func buildShop(t *testing.T, f *fixture) string {
	t.Helper()
	ctx := context.Background()

	api, err := f.catalog.CreateComponent(ctx, CreateComponentInput{Name: "api", Type: domain.ComponentAPIService})
	require.NoError(t, err)
	db, err := f.catalog.CreateComponent(ctx, CreateComponentInput{Name: "orders", Type: domain.ComponentDatabase, Subtype: domain.SubtypeRelational})
	require.NoError(t, err)
	query, err := f.catalog.CreateLink(ctx, api.ID, db.ID, domain.LinkQuery)
	require.NoError(t, err)

	a, err := f.archs.Create(ctx, "shop")
	require.NoError(t, err)
	_, err = f.archs.AddComponent(ctx, a.ID, api.ID)
	require.NoError(t, err)
	_, err = f.archs.AddComponent(ctx, a.ID, db.ID)
	require.NoError(t, err)
	_, err = f.archs.AddLink(ctx, a.ID, query.ID)
	require.NoError(t, err)
	return a.ID
}

func TestArchitectureService_Lifecycle(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	_, err := f.archs.Create(ctx, "  ")
	assert.True(t, errors.Is(err, domain.ErrArchitectureNameNeeded))

	id := buildShop(t, f)

	a, err := f.archs.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, a.Components, 2)
	require.Len(t, a.Links, 1)
	assert.Same(t, a.Components[0], a.Links[0].Source, "links resolve to the architecture's components")

	t.Run("duplicates rejected", func(t *testing.T) {
		_, err := f.archs.AddComponent(ctx, id, a.Components[0].ID)
		assert.True(t, errors.Is(err, domain.ErrAlreadyAttached))
		_, err = f.archs.AddLink(ctx, id, a.Links[0].ID)
		assert.True(t, errors.Is(err, domain.ErrAlreadyAttached))
	})

	t.Run("link endpoints must be attached", func(t *testing.T) {
		other, err := f.archs.Create(ctx, "empty")
		require.NoError(t, err)
		_, err = f.archs.AddLink(ctx, other.ID, a.Links[0].ID)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("rename", func(t *testing.T) {
		got, err := f.archs.Rename(ctx, id, "shop v2")
		require.NoError(t, err)
		assert.Equal(t, "shop v2", got.Name)
	})

	t.Run("submit", func(t *testing.T) {
		_, err := f.archs.Submit(ctx, id, "u1", "q1")
		require.NoError(t, err)
		byUser, err := f.archs.ListByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, byUser, 1)
		assert.True(t, byUser[0].Submitted)

		byQ, err := f.archs.ListByQuestion(ctx, "q1")
		require.NoError(t, err)
		assert.Len(t, byQ, 1)
	})

	t.Run("copy", func(t *testing.T) {
		cp, err := f.archs.Copy(ctx, id, "")
		require.NoError(t, err)
		assert.Equal(t, "shop v2 (Copy)", cp.Name)
		assert.NotEqual(t, id, cp.ID)
		assert.False(t, cp.Submitted)
		require.Len(t, cp.Links, 1)
		assert.NotEqual(t, a.Links[0].ID, cp.Links[0].ID)
		assert.Equal(t, cp.Components[0].ID, cp.Links[0].SourceRef())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, f.archs.Delete(ctx, id))
		_, err := f.archs.Get(ctx, id)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.True(t, errors.Is(f.archs.Delete(ctx, id), domain.ErrNotFound))
	})
}

func TestArchitectureService_Save(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	id := buildShop(t, f)

	in := &domain.Architecture{
		Name: "replaced",
		Components: []*domain.Component{
			{ID: "x", Name: "x", Type: domain.ComponentQueue, Heuristics: domain.HeuristicProfile{domain.ParamLatency: 5}},
			nil,
		},
		Links: []*domain.Link{{ID: "lx", SourceID: "x", TargetID: "x", Type: domain.LinkStream}},
	}
	got, err := f.archs.Save(ctx, id, in)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "replaced", got.Name)
	require.Len(t, got.Components, 1)
	require.Len(t, got.Links, 1)
	assert.Same(t, got.Components[0], got.Links[0].Target)

	in.Components[0].Heuristics[domain.ParamLatency] = 40
	_, err = f.archs.Save(ctx, id, in)
	assert.True(t, errors.Is(err, domain.ErrInvalidProfile))
}

func TestArchitectureService_EvaluateDetailed(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	id := buildShop(t, f)

	first, err := f.archs.EvaluateDetailed(ctx, id)
	require.NoError(t, err)
	assert.True(t, first.Valid)
	assert.Equal(t, 2, first.ComponentCount)
	assert.NotEmpty(t, first.Insights)

	score, err := f.archs.Evaluate(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, first.OverallScore, score, 1e-9)

	second, err := f.archs.EvaluateDetailed(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first.OverallScore, second.OverallScore)

	m := GetMetrics()
	assert.EqualValues(t, 1, m.CacheHits)
	assert.EqualValues(t, 1, m.CacheMisses)

	hist, err := f.archs.History(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1, "cache hits are not recorded")
	assert.Equal(t, TriggerRequest, hist[0].Trigger)

	t.Run("mutation invalidates the cache", func(t *testing.T) {
		_, err := f.archs.Rename(ctx, id, "renamed")
		require.NoError(t, err)
		_, hit, err := f.cache.Get(ctx, id)
		require.NoError(t, err)
		assert.False(t, hit)

		r, err := f.archs.EvaluateDetailed(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "renamed", r.ArchitectureName)
	})

	t.Run("missing architecture", func(t *testing.T) {
		_, err := f.archs.EvaluateDetailed(ctx, "nope")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		_, err = f.archs.History(ctx, "nope", 10)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("cache outage falls back to evaluation", func(t *testing.T) {
		f.mr.Close()
		r, err := f.archs.EvaluateDetailed(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, r.ArchitectureID)
	})
}

func TestArchitectureService_ValidateAndVisualize(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	id := buildShop(t, f)

	a, err := f.archs.Get(ctx, id)
	require.NoError(t, err)
	db := a.Components[1]
	a.Components = append(a.Components, &domain.Component{ID: "cache", Name: "sessions", Type: domain.ComponentCache, Subtype: domain.SubtypeMemcached})
	a.Links = append(a.Links, &domain.Link{ID: "bad", SourceID: db.ID, TargetID: "cache", Type: domain.LinkSyncCall})
	_, err = f.archs.Save(ctx, id, a)
	require.NoError(t, err)

	res, err := f.archs.Validate(ctx, id)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "Database orders must not call cache sessions synchronously", res.Violations[0])
	assert.Empty(t, res.Warnings)
	assert.EqualValues(t, 1, GetMetrics().Validations)

	dot, err := f.archs.Visualize(ctx, id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dot, "digraph G {"))
	assert.Contains(t, dot, `color="red"`)
}

func TestArchitectureService_Compare(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	a := buildShop(t, f)

	empty, err := f.archs.Create(ctx, "empty")
	require.NoError(t, err)

	cmp, err := f.archs.Compare(ctx, a, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, "shop", cmp.Winner)
	assert.Equal(t, 0.0, cmp.ScoreB)
	assert.InDelta(t, cmp.ScoreA, cmp.ScoreDifference, 1e-9)

	cp, err := f.archs.Copy(ctx, a, "")
	require.NoError(t, err)
	cmp, err = f.archs.Compare(ctx, a, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, evaluation.TieWinner, cmp.Winner)
	assert.EqualValues(t, 2, GetMetrics().Comparisons)

	_, err = f.archs.Compare(ctx, a, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestArchitectureService_ReevaluateSubmitted(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	id := buildShop(t, f)
	_, err := f.archs.Create(ctx, "draft")
	require.NoError(t, err)
	_, err = f.archs.Submit(ctx, id, "u1", "q1")
	require.NoError(t, err)

	n, err := f.archs.ReevaluateSubmitted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hist, err := f.archs.History(ctx, id, 5)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, TriggerScheduled, hist[0].Trigger)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = f.archs.ReevaluateSubmitted(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestArchitectureService_SaveNormalizes(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	id := buildShop(t, f)

	doc := func() *domain.Architecture {
		return &domain.Architecture{
			Components: []*domain.Component{
				{ID: "q", Name: "jobs", Type: "queue", Subtype: "kafka", Heuristics: domain.HeuristicProfile{"latency": 4, "cost": 6}},
				{ID: "w", Name: "worker", Type: "api-service", Heuristics: domain.HeuristicProfile{"Latency": 8}},
			},
			Links: []*domain.Link{
				{ID: "l", SourceID: "w", TargetID: "q", Type: "async_message", Heuristics: domain.HeuristicProfile{"availability": 9}},
			},
		}
	}

	got, err := f.archs.Save(ctx, id, doc())
	require.NoError(t, err)
	require.Len(t, got.Components, 2)
	assert.Equal(t, domain.ComponentQueue, got.Components[0].Type)
	assert.Equal(t, domain.SubtypeKafka, got.Components[0].Subtype)
	assert.Equal(t, domain.HeuristicProfile{domain.ParamLatency: 4, domain.ParamCost: 6}, got.Components[0].Heuristics)
	assert.Equal(t, domain.ComponentAPIService, got.Components[1].Type)
	assert.Equal(t, domain.LinkAsyncMessage, got.Links[0].Type)
	assert.Equal(t, domain.HeuristicProfile{domain.ParamAvailability: 9}, got.Links[0].Heuristics)

	r, err := f.archs.EvaluateDetailed(ctx, id)
	require.NoError(t, err)
	for p := range r.ParameterScores {
		assert.Equal(t, strings.ToUpper(string(p)), string(p))
	}
	assert.InDelta(t, 6.0, r.ParameterScores[domain.ParamLatency], 1e-9)

	cases := map[string]func(a *domain.Architecture){
		"case variants of one key": func(a *domain.Architecture) {
			a.Components[0].Heuristics = domain.HeuristicProfile{"latency": 2, "LATENCY": 9}
		},
		"link score out of range": func(a *domain.Architecture) { a.Links[0].Heuristics = domain.HeuristicProfile{"latency": 40} },
		"unknown component type":  func(a *domain.Architecture) { a.Components[1].Type = "mainframe" },
		"foreign subtype":         func(a *domain.Architecture) { a.Components[0].Subtype = "redis" },
		"unknown link type":       func(a *domain.Architecture) { a.Links[0].Type = "teleport" },
	}
	for name, broken := range cases {
		t.Run(name, func(t *testing.T) {
			in := doc()
			broken(in)
			_, err := f.archs.Save(ctx, id, in)
			require.Error(t, err)
			assert.True(t, IsClientError(err), "%v", err)
		})
	}

	_, err = f.archs.Save(ctx, id, nil)
	assert.True(t, errors.Is(err, domain.ErrBodyRequired))
	assert.True(t, IsClientError(err))

	stored, err := f.archs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "jobs", stored.Components[0].Name, "rejected saves leave the document untouched")
}

func TestArchitectureService_HistoryLimit(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	id := buildShop(t, f)
	a, err := f.archs.Get(ctx, id)
	require.NoError(t, err)

	for i := 0; i < MaxHistoryLimit+5; i++ {
		f.archs.Reevaluate(ctx, a, TriggerScheduled)
	}

	huge, err := f.archs.History(ctx, id, 1<<62)
	require.NoError(t, err)
	assert.Len(t, huge, MaxHistoryLimit)

	def, err := f.archs.History(ctx, id, -1)
	require.NoError(t, err)
	assert.Len(t, def, DefaultHistoryLimit)

	few, err := f.archs.History(ctx, id, 3)
	require.NoError(t, err)
	assert.Len(t, few, 3)
}

// mutatingStore runs onGet once, right after the next successful Get.
type mutatingStore struct {
	ArchitectureStore
	onGet func()
}

func (m *mutatingStore) Get(ctx context.Context, id string) (*domain.Architecture, error) {
	a, err := m.ArchitectureStore.Get(ctx, id)
	if err == nil && m.onGet != nil {
		fn := m.onGet
		m.onGet = nil
		fn()
	}
	return a, err
}

func TestArchitectureService_EvaluateDetailedConcurrentEdit(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	mem := repository.NewMemoryArchitectureRepository()
	store := &mutatingStore{ArchitectureStore: mem}
	svc := NewArchitectureService(ArchitectureDeps{
		Store:     store,
		Evaluator: evaluation.NewEvaluator(nil, nil),
		Cache:     f.cache,
		History:   f.history,
	})
	a, err := svc.Create(ctx, "draft")
	require.NoError(t, err)

	// An edit lands between the read and the cache write, and its
	// invalidation runs before the stale report is stored.
	store.onGet = func() {
		cur, err := mem.Get(ctx, a.ID)
		require.NoError(t, err)
		cur.Name = "edited"
		cur.UpdatedAt = cur.UpdatedAt.Add(time.Second)
		require.NoError(t, mem.Save(ctx, cur))
		require.NoError(t, f.cache.Invalidate(ctx, a.ID))
	}

	r, err := svc.EvaluateDetailed(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", r.ArchitectureName)

	_, hit, err := f.cache.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, hit, "a report of the old document must not stay cached")

	fresh, err := svc.EvaluateDetailed(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", fresh.ArchitectureName)
	_, hit, err = f.cache.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, hit)
}
