package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archsim/archsim-backend/internal/architecture_evaluation/domain"
)

// ArchitectureRepository stores architectures as JSONB documents. Scalar
// columns are duplicated out of the document for the list queries.
type ArchitectureRepository struct {
	db *pgxpool.Pool
}

func NewArchitectureRepository(db *pgxpool.Pool) *ArchitectureRepository {
	return &ArchitectureRepository{db: db}
}

// document is the persisted graph. Links are stored by endpoint id only;
// Source/Target are re-resolved on load.
type document struct {
	Components []*domain.Component `json:"components"`
	Links      []*domain.Link      `json:"links"`
}

func encodeDocument(a *domain.Architecture) ([]byte, error) {
	doc := document{
		Components: a.Components,
		Links:      make([]*domain.Link, 0, len(a.Links)),
	}
	for _, l := range a.Links {
		if l == nil {
			continue
		}
		doc.Links = append(doc.Links, detach(l))
	}
	return json.Marshal(doc)
}

func decodeDocument(a *domain.Architecture, raw []byte) error {
	var doc document
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("decode architecture document: %w", err)
		}
	}
	a.Components = doc.Components
	a.Links = doc.Links
	if a.Components == nil {
		a.Components = []*domain.Component{}
	}
	if a.Links == nil {
		a.Links = []*domain.Link{}
	}
	a.ResolveLinks()
	return nil
}

func detach(l *domain.Link) *domain.Link {
	cp := *l
	cp.SourceID = l.SourceRef()
	cp.TargetID = l.TargetRef()
	cp.Source = nil
	cp.Target = nil
	return &cp
}

func (r *ArchitectureRepository) Save(ctx context.Context, a *domain.Architecture) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("architecture id required")
	}
	doc, err := encodeDocument(a)
	if err != nil {
		return err
	}

	const q = `
insert into architectures (id, name, user_id, question_id, submitted, document, created_at, updated_at)
values ($1, $2, nullif($3,''), nullif($4,''), $5, $6::jsonb, $7, $8)
on conflict (id) do update
set
  name = excluded.name,
  user_id = excluded.user_id,
  question_id = excluded.question_id,
  submitted = excluded.submitted,
  document = excluded.document,
  updated_at = excluded.updated_at;
`
	if _, err := r.db.Exec(ctx, q, a.ID, a.Name, a.UserID, a.QuestionID, a.Submitted, string(doc), a.CreatedAt, a.UpdatedAt); err != nil {
		return fmt.Errorf("save architecture: %w", err)
	}
	return nil
}

const selectArchitecture = `
select id, name, coalesce(user_id,''), coalesce(question_id,''), submitted, document::text, created_at, updated_at
from architectures
`

func (r *ArchitectureRepository) Get(ctx context.Context, id string) (*domain.Architecture, error) {
	row := r.db.QueryRow(ctx, selectArchitecture+`where id = $1`, id)
	a, err := scanArchitecture(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("architecture", id)
		}
		return nil, fmt.Errorf("get architecture: %w", err)
	}
	return a, nil
}

func (r *ArchitectureRepository) Delete(ctx context.Context, id string) error {
	const q = `delete from architectures where id = $1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete architecture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("architecture", id)
	}
	return nil
}

func (r *ArchitectureRepository) List(ctx context.Context) ([]*domain.Architecture, error) {
	return r.list(ctx, selectArchitecture+`order by updated_at desc`)
}

func (r *ArchitectureRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Architecture, error) {
	return r.list(ctx, selectArchitecture+`where user_id = $1 order by updated_at desc`, userID)
}

func (r *ArchitectureRepository) ListByQuestion(ctx context.Context, questionID string) ([]*domain.Architecture, error) {
	return r.list(ctx, selectArchitecture+`where question_id = $1 order by updated_at desc`, questionID)
}

func (r *ArchitectureRepository) ListSubmitted(ctx context.Context) ([]*domain.Architecture, error) {
	return r.list(ctx, selectArchitecture+`where submitted order by updated_at desc`)
}

func (r *ArchitectureRepository) Count(ctx context.Context) (int, error) {
	const q = `select count(*) from architectures`
	var n int
	if err := r.db.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count architectures: %w", err)
	}
	return n, nil
}

func (r *ArchitectureRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *ArchitectureRepository) list(ctx context.Context, q string, args ...any) ([]*domain.Architecture, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list architectures: %w", err)
	}
	defer rows.Close()

	out := []*domain.Architecture{}
	for rows.Next() {
		a, err := scanArchitecture(rows)
		if err != nil {
			return nil, fmt.Errorf("scan architecture: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanArchitecture(row pgx.Row) (*domain.Architecture, error) {
	var (
		a       domain.Architecture
		doc     string
		created time.Time
		updated time.Time
	)
	if err := row.Scan(&a.ID, &a.Name, &a.UserID, &a.QuestionID, &a.Submitted, &doc, &created, &updated); err != nil {
		return nil, err
	}
	a.CreatedAt = created.UTC()
	a.UpdatedAt = updated.UTC()
	if err := decodeDocument(&a, []byte(doc)); err != nil {
		return nil, err
	}
	return &a, nil
}
