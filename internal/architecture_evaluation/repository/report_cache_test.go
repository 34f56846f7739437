package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/evaluation"
)

func TestReportCache(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewReportCache(client, time.Minute)
	ctx := context.Background()

	report := &evaluation.Report{
		ArchitectureID:  "a-1",
		OverallScore:    7.25,
		ParameterScores: map[domain.Parameter]float64{domain.ParamLatency: 7.25},
		Bottlenecks:     []evaluation.BottleneckInfo{},
		Insights:        []string{"ok"},
		Valid:           true,
		Violations:      []string{},
		Warnings:        []string{},
		EvaluatedAt:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("miss", func(t *testing.T) {
		got, ok, err := cache.Get(ctx, "a-1")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("put publishes and expires", func(t *testing.T) {
		sub := cache.Subscribe(ctx, "a-1")
		defer sub.Close()
		_, err := sub.Receive(ctx)
		require.NoError(t, err)

		require.NoError(t, cache.Put(ctx, report))

		got, ok, err := cache.Get(ctx, "a-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, report, got)

		msg, err := sub.ReceiveMessage(ctx)
		require.NoError(t, err)
		var ev ArchitectureEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, EventEvaluated, ev.Event)
		require.NotNil(t, ev.OverallScore)
		assert.Equal(t, 7.25, *ev.OverallScore)

		mr.FastForward(2 * time.Minute)
		_, ok, err = cache.Get(ctx, "a-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invalidate", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, report))
		require.NoError(t, cache.Invalidate(ctx, "a-1"))
		_, ok, err := cache.Get(ctx, "a-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	assert.Equal(t, defaultReportTTL, NewReportCache(client, 0).ttl)
}
