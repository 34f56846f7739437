package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
	"github.com/archsim/archsim-backend/internal/architecture_evaluation/topology"
)

const (
	componentKeyPrefix     = "arch:component:"       // arch:component:{id} -> component JSON
	componentSetKey        = "arch:components"       // set of all component ids
	componentTypeSetPrefix = "arch:components:type:" // arch:components:type:{TYPE} -> component ids
	linkKeyPrefix          = "arch:link:"            // arch:link:{id} -> link JSON (ids only)
	linkSetKey             = "arch:links"            // set of all link ids
	linkOutSetPrefix       = "arch:links:out:"       // arch:links:out:{componentId} -> link ids
	linkInSetPrefix        = "arch:links:in:"        // arch:links:in:{componentId} -> link ids
)

// CatalogRepository keeps standalone components and links in Redis, with
// per-component in/out sets so connection stats are two SCARDs.
type CatalogRepository struct {
	client *redis.Client
}

func NewCatalogRepository(client *redis.Client) *CatalogRepository {
	return &CatalogRepository{client: client}
}

func (r *CatalogRepository) SaveComponent(ctx context.Context, c *domain.Component) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("component id required")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal component: %w", err)
	}

	// a type change must move the id between type sets
	prev, err := r.GetComponent(ctx, c.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, componentKeyPrefix+c.ID, data, 0)
	pipe.SAdd(ctx, componentSetKey, c.ID)
	if prev != nil && prev.Type != c.Type {
		pipe.SRem(ctx, componentTypeSetPrefix+string(prev.Type), c.ID)
	}
	pipe.SAdd(ctx, componentTypeSetPrefix+string(c.Type), c.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save component: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetComponent(ctx context.Context, id string) (*domain.Component, error) {
	data, err := r.client.Get(ctx, componentKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, domain.NotFound("component", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get component: %w", err)
	}
	var c domain.Component
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal component: %w", err)
	}
	return &c, nil
}

func (r *CatalogRepository) ComponentExists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, componentKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check component: %w", err)
	}
	return n > 0, nil
}

func (r *CatalogRepository) CountComponents(ctx context.Context) (int64, error) {
	n, err := r.client.SCard(ctx, componentSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count components: %w", err)
	}
	return n, nil
}

// ListComponents returns every component ordered by id.
func (r *CatalogRepository) ListComponents(ctx context.Context) ([]*domain.Component, error) {
	return r.componentsInSet(ctx, componentSetKey)
}

func (r *CatalogRepository) ListComponentsByType(ctx context.Context, t domain.ComponentType) ([]*domain.Component, error) {
	return r.componentsInSet(ctx, componentTypeSetPrefix+string(t))
}

// DeleteComponent removes the component only. Callers remove touching links
// first.
func (r *CatalogRepository) DeleteComponent(ctx context.Context, id string) error {
	c, err := r.GetComponent(ctx, id)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, componentKeyPrefix+id, linkOutSetPrefix+id, linkInSetPrefix+id)
	pipe.SRem(ctx, componentSetKey, id)
	pipe.SRem(ctx, componentTypeSetPrefix+string(c.Type), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete component: %w", err)
	}
	return nil
}

func (r *CatalogRepository) SaveLink(ctx context.Context, l *domain.Link) error {
	if l == nil || l.ID == "" {
		return fmt.Errorf("link id required")
	}
	stored := detach(l)
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, linkKeyPrefix+l.ID, data, 0)
	pipe.SAdd(ctx, linkSetKey, l.ID)
	pipe.SAdd(ctx, linkOutSetPrefix+stored.SourceID, l.ID)
	pipe.SAdd(ctx, linkInSetPrefix+stored.TargetID, l.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}
	return nil
}

// GetLink returns the stored link with endpoint ids set and Source/Target nil.
func (r *CatalogRepository) GetLink(ctx context.Context, id string) (*domain.Link, error) {
	data, err := r.client.Get(ctx, linkKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, domain.NotFound("link", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	var l domain.Link
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to unmarshal link: %w", err)
	}
	return &l, nil
}

func (r *CatalogRepository) ListLinks(ctx context.Context) ([]*domain.Link, error) {
	return r.linksInSets(ctx, linkSetKey)
}

// LinksForComponent returns outgoing and incoming links of a component.
func (r *CatalogRepository) LinksForComponent(ctx context.Context, componentID string) ([]*domain.Link, error) {
	return r.linksInSets(ctx, linkOutSetPrefix+componentID, linkInSetPrefix+componentID)
}

func (r *CatalogRepository) DeleteLink(ctx context.Context, id string) error {
	l, err := r.GetLink(ctx, id)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, linkKeyPrefix+id)
	pipe.SRem(ctx, linkSetKey, id)
	pipe.SRem(ctx, linkOutSetPrefix+l.SourceID, id)
	pipe.SRem(ctx, linkInSetPrefix+l.TargetID, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ConnectionStats(ctx context.Context, componentID string) (topology.ConnectionStats, error) {
	pipe := r.client.Pipeline()
	in := pipe.SCard(ctx, linkInSetPrefix+componentID)
	out := pipe.SCard(ctx, linkOutSetPrefix+componentID)
	if _, err := pipe.Exec(ctx); err != nil {
		return topology.ConnectionStats{}, fmt.Errorf("failed to read connection stats: %w", err)
	}
	return topology.ConnectionStats{Incoming: int(in.Val()), Outgoing: int(out.Val())}, nil
}

func (r *CatalogRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *CatalogRepository) componentsInSet(ctx context.Context, key string) ([]*domain.Component, error) {
	ids, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	sort.Strings(ids)
	out := make([]*domain.Component, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = componentKeyPrefix + id
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load components: %w", err)
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // index entry without a body
		}
		var c domain.Component
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal component: %w", err)
		}
		out = append(out, &c)
	}
	return out, nil
}

func (r *CatalogRepository) linksInSets(ctx context.Context, keys ...string) ([]*domain.Link, error) {
	ids, err := r.client.SUnion(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	sort.Strings(ids)
	out := make([]*domain.Link, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	bodyKeys := make([]string, len(ids))
	for i, id := range ids {
		bodyKeys[i] = linkKeyPrefix + id
	}
	vals, err := r.client.MGet(ctx, bodyKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var l domain.Link
		if err := json.Unmarshal([]byte(s), &l); err != nil {
			return nil, fmt.Errorf("failed to unmarshal link: %w", err)
		}
		out = append(out, &l)
	}
	return out, nil
}
