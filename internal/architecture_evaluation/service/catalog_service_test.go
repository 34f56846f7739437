package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/heuristics"
)

func TestCatalogService_CreateComponent(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	c, err := f.catalog.CreateComponent(ctx, CreateComponentInput{Type: domain.ComponentCache, Subtype: domain.SubtypeRedis})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.True(t, strings.HasPrefix(c.Name, "cache-"), c.Name)
	assert.Equal(t, heuristics.DefaultProfile(domain.ComponentCache, domain.SubtypeRedis), c.Heuristics)

	got, err := f.catalog.GetComponent(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Heuristics, got.Heuristics)

	t.Run("explicit profile wins", func(t *testing.T) {
		c, err := f.catalog.CreateComponent(ctx, CreateComponentInput{
			Name: " orders ", Type: domain.ComponentDatabase,
			Heuristics: domain.HeuristicProfile{domain.ParamLatency: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, "orders", c.Name)
		assert.Equal(t, domain.HeuristicProfile{domain.ParamLatency: 3}, c.Heuristics)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := f.catalog.CreateComponent(ctx, CreateComponentInput{Type: "MAINFRAME"})
		assert.True(t, errors.Is(err, domain.ErrInvalidComponentType))

		_, err = f.catalog.CreateComponent(ctx, CreateComponentInput{Type: domain.ComponentCache, Subtype: domain.SubtypeKafka})
		assert.True(t, errors.Is(err, domain.ErrInvalidSubtype))

		_, err = f.catalog.CreateComponent(ctx, CreateComponentInput{Type: domain.ComponentCache,
			Heuristics: domain.HeuristicProfile{domain.ParamCost: 12}})
		assert.True(t, errors.Is(err, domain.ErrInvalidProfile))
	})

	n, err := f.catalog.CountComponents(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCatalogService_UpdateComponent(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	c, err := f.catalog.CreateComponent(ctx, CreateComponentInput{Name: "db", Type: domain.ComponentDatabase})
	require.NoError(t, err)

	name := "orders"
	sub := domain.SubtypeDocument
	got, err := f.catalog.UpdateComponent(ctx, c.ID, ComponentUpdate{Name: &name, Subtype: &sub})
	require.NoError(t, err)
	assert.Equal(t, "orders", got.Name)
	assert.Equal(t, domain.SubtypeDocument, got.Subtype)

	bad := domain.SubtypeRedis
	_, err = f.catalog.UpdateComponent(ctx, c.ID, ComponentUpdate{Subtype: &bad})
	assert.True(t, errors.Is(err, domain.ErrInvalidSubtype))

	_, err = f.catalog.UpdateComponent(ctx, "missing", ComponentUpdate{Name: &name})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCatalogService_Links(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	api, err := f.catalog.CreateComponent(ctx, CreateComponentInput{Name: "api", Type: domain.ComponentAPIService})
	require.NoError(t, err)
	db, err := f.catalog.CreateComponent(ctx, CreateComponentInput{Name: "orders", Type: domain.ComponentDatabase, Subtype: domain.SubtypeDocument})
	require.NoError(t, err)
	cache, err := f.catalog.CreateComponent(ctx, CreateComponentInput{Name: "sessions", Type: domain.ComponentCache, Subtype: domain.SubtypeRedis})
	require.NoError(t, err)

	t.Run("allowed link gets default heuristics", func(t *testing.T) {
		l, err := f.catalog.CreateLink(ctx, api.ID, db.ID, domain.LinkQuery)
		require.NoError(t, err)
		assert.Equal(t, heuristics.DefaultLinkProfile(domain.LinkQuery), l.Heuristics)

		got, err := f.catalog.GetLink(ctx, l.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Source)
		assert.Equal(t, api.ID, got.Source.ID)
	})

	t.Run("denied link", func(t *testing.T) {
		_, err := f.catalog.CreateLink(ctx, db.ID, cache.ID, domain.LinkSyncCall)
		var ce *domain.ConnectionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "Database orders must not call cache sessions synchronously", ce.Reason)
		assert.True(t, errors.Is(err, domain.ErrConnectionNotAllowed))
		assert.EqualValues(t, 1, GetMetrics().LinksRejected)
	})

	t.Run("validate without writing", func(t *testing.T) {
		chk, err := f.catalog.ValidateLink(ctx, api.ID, cache.ID, domain.LinkCacheAside)
		require.NoError(t, err)
		assert.Equal(t, LinkCheck{Valid: true, Reason: "connection is valid"}, chk)

		chk, err = f.catalog.ValidateLink(ctx, "ghost", cache.ID, domain.LinkCacheAside)
		require.NoError(t, err)
		assert.Equal(t, "source component not found", chk.Reason)

		chk, err = f.catalog.ValidateLink(ctx, api.ID, "ghost", domain.LinkCacheAside)
		require.NoError(t, err)
		assert.Equal(t, "target component not found", chk.Reason)

		links, err := f.catalog.ListLinks(ctx)
		require.NoError(t, err)
		assert.Len(t, links, 1)
	})

	t.Run("suggest", func(t *testing.T) {
		got, err := f.catalog.SuggestLinkTypes(ctx, api.ID, cache.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []domain.LinkType{domain.LinkQuery, domain.LinkCacheAside}, got)
	})

	t.Run("stats", func(t *testing.T) {
		st, err := f.catalog.ConnectionStats(ctx, api.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, st.Outgoing)
		assert.Equal(t, 0, st.Incoming)
	})

	t.Run("update link heuristics", func(t *testing.T) {
		links, err := f.catalog.LinksForComponent(ctx, db.ID)
		require.NoError(t, err)
		require.Len(t, links, 1)

		l, err := f.catalog.UpdateLinkHeuristics(ctx, links[0].ID, domain.HeuristicProfile{domain.ParamLatency: 2})
		require.NoError(t, err)
		assert.Equal(t, 2.0, l.Heuristics[domain.ParamLatency])

		_, err = f.catalog.UpdateLinkHeuristics(ctx, links[0].ID, domain.HeuristicProfile{domain.ParamLatency: -2})
		assert.True(t, errors.Is(err, domain.ErrInvalidProfile))
	})

	t.Run("delete component cascades", func(t *testing.T) {
		require.NoError(t, f.catalog.DeleteComponent(ctx, db.ID))
		links, err := f.catalog.ListLinks(ctx)
		require.NoError(t, err)
		assert.Empty(t, links)

		err = f.catalog.DeleteComponent(ctx, db.ID)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}
