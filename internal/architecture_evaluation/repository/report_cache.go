package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/evaluation"
)

const (
	reportKeyPrefix    = "arch:report:" // arch:report:{architectureId} -> report JSON
	eventChannelPrefix = "arch:events:" // arch:events:{architectureId}
	defaultReportTTL   = 10 * time.Minute
)

const (
	EventEvaluated   = "evaluated"
	EventInvalidated = "invalidated"
)

// ArchitectureEvent is published whenever a cached report changes.
type ArchitectureEvent struct {
	ArchitectureID string    `json:"architecture_id"`
	Event          string    `json:"event"`
	OverallScore   *float64  `json:"overall_score,omitempty"`
	At             time.Time `json:"at"`
}

// ReportCache holds the latest detailed report per architecture with a TTL.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

// Get returns (nil, false, nil) on a miss.
func (c *ReportCache) Get(ctx context.Context, architectureID string) (*evaluation.Report, bool, error) {
	data, err := c.client.Get(ctx, reportKeyPrefix+architectureID).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached report: %w", err)
	}
	var r evaluation.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached report: %w", err)
	}
	return &r, true, nil
}

func (c *ReportCache) Put(ctx context.Context, r *evaluation.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := c.client.Set(ctx, reportKeyPrefix+r.ArchitectureID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	score := r.OverallScore
	c.publish(ctx, ArchitectureEvent{ArchitectureID: r.ArchitectureID, Event: EventEvaluated, OverallScore: &score, At: r.EvaluatedAt})
	return nil
}

func (c *ReportCache) Invalidate(ctx context.Context, architectureID string) error {
	if err := c.client.Del(ctx, reportKeyPrefix+architectureID).Err(); err != nil {
		return fmt.Errorf("failed to invalidate report: %w", err)
	}
	c.publish(ctx, ArchitectureEvent{ArchitectureID: architectureID, Event: EventInvalidated, At: time.Now().UTC()})
	return nil
}

// Subscribe listens to events of one architecture. Close the returned
// PubSub when done.
func (c *ReportCache) Subscribe(ctx context.Context, architectureID string) *redis.PubSub {
	return c.client.Subscribe(ctx, EventChannel(architectureID))
}

func EventChannel(architectureID string) string {
	return eventChannelPrefix + architectureID
}

// publish is best effort; a lost event never fails the write.
func (c *ReportCache) publish(ctx context.Context, ev ArchitectureEvent) {
	data, err := json.Marshal(ev)
	if err == nil {
		c.client.Publish(ctx, EventChannel(ev.ArchitectureID), data)
	}
}
