package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

// setupTestPool connects to TEST_DB_DSN and skips when it is not set. The
// schema from migrations/0001_init.sql must already be applied.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))
	t.Cleanup(pool.Close)
	return pool
}

func TestArchitectureRepository_RoundTrip(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewArchitectureRepository(pool)
	ctx := context.Background()

	a := sampleArchitecture("it-"+time.Now().Format("150405.000000"), time.Now().UTC().Truncate(time.Millisecond))
	a.UserID = "it-user"
	t.Cleanup(func() { _ = repo.Delete(context.Background(), a.ID) })

	require.NoError(t, repo.Save(ctx, a))

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Name, got.Name)
	assert.Len(t, got.Components, 2)
	require.Len(t, got.Links, 1)
	assert.Same(t, got.Components[0], got.Links[0].Source)

	a.Name = "renamed"
	a.Submitted = true
	require.NoError(t, repo.Save(ctx, a))

	submitted, err := repo.ListSubmitted(ctx)
	require.NoError(t, err)
	found := false
	for _, s := range submitted {
		if s.ID == a.ID {
			found = true
			assert.Equal(t, "renamed", s.Name)
		}
	}
	assert.True(t, found)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.Get(ctx, a.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentEncoding_StripsResolvedEndpoints(t *testing.T) {
	a := sampleArchitecture("doc", time.Now())
	raw, err := encodeDocument(a)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"source":`)
	assert.NotNil(t, a.Links[0].Source, "encoding must not mutate the input")

	var back domain.Architecture
	require.NoError(t, decodeDocument(&back, raw))
	require.Len(t, back.Links, 1)
	assert.Equal(t, "doc-api", back.Links[0].Source.ID)
}
