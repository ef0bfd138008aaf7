package pgsql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/models"
	"github.com/SscSPs/gym_document_engine/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tagColumns = `t.tag_id, t.tenant_id, t.name, t.name_normalized, t.usage_count, t.last_used_at, t.is_active,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by, t.deleted_at, t.deleted_by`

type PgxTagRepository struct {
	BaseRepository
}

func newPgxTagRepository(pool *pgxpool.Pool) portsrepo.TagRepository {
	return &PgxTagRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TagRepository = (*PgxTagRepository)(nil)

// FindOrCreateTags inserts the missing tags and returns all of them ordered by normalized name.
// names maps normalized name to display name.
func (r *PgxTagRepository) FindOrCreateTags(ctx context.Context, tenantID string, names map[string]string, userID string, now time.Time) ([]domain.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	normalized := make([]string, 0, len(names))
	for n := range names {
		normalized = append(normalized, n)
	}
	sort.Strings(normalized)

	var tags []domain.Tag
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, n := range normalized {
			batch.Queue(`INSERT INTO tags (tag_id, tenant_id, name, name_normalized, usage_count, is_active,
					created_at, created_by, last_updated_at, last_updated_by)
				VALUES ($1, $2, $3, $4, 0, TRUE, $5, $6, $5, $6)
				ON CONFLICT (tenant_id, name_normalized) DO NOTHING;`,
				uuid.NewString(), tenantID, names[n], n, now, userID)
		}
		if err := sendBatch(ctx, tx, batch); err != nil {
			return err
		}
		var err error
		tags, err = queryTags(ctx, tx, `SELECT `+tagColumns+` FROM tags t
			WHERE t.tenant_id = $1 AND t.name_normalized = ANY($2) AND t.deleted_at IS NULL
			ORDER BY t.name_normalized;`, tenantID, normalized)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// FindTagsByNormalizedNames returns existing tags only.
func (r *PgxTagRepository) FindTagsByNormalizedNames(ctx context.Context, tenantID string, normalized []string) ([]domain.Tag, error) {
	if len(normalized) == 0 {
		return nil, nil
	}
	return queryTags(ctx, r.Pool, `SELECT `+tagColumns+` FROM tags t
		WHERE t.tenant_id = $1 AND t.name_normalized = ANY($2) AND t.deleted_at IS NULL
		ORDER BY t.name_normalized;`, tenantID, normalized)
}

// LinkTags creates missing links and bumps usage of the newly linked tags.
func (r *PgxTagRepository) LinkTags(ctx context.Context, tenantID, resourceType, resourceID string, tagIDs []string, userID string, now time.Time) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return r.InTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, id := range tagIDs {
			batch.Queue(`WITH linked AS (
					INSERT INTO tag_links (tag_id, tenant_id, resource_type, resource_id, created_at, created_by)
					SELECT t.tag_id, t.tenant_id, $3, $4, $5, $6 FROM tags t WHERE t.tag_id = $1 AND t.tenant_id = $2
					ON CONFLICT (tag_id, resource_type, resource_id) DO NOTHING
					RETURNING tag_id
				)
				UPDATE tags SET usage_count = usage_count + 1, last_used_at = $5
				WHERE tag_id IN (SELECT tag_id FROM linked);`,
				id, tenantID, resourceType, resourceID, now, userID)
		}
		return sendBatch(ctx, tx, batch)
	})
}

// UnlinkTags removes links and decrements usage of the unlinked tags.
func (r *PgxTagRepository) UnlinkTags(ctx context.Context, tenantID, resourceType, resourceID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := r.Pool.Exec(ctx, `WITH unlinked AS (
			DELETE FROM tag_links
			WHERE tenant_id = $1 AND resource_type = $2 AND resource_id = $3 AND tag_id = ANY($4)
			RETURNING tag_id
		)
		UPDATE tags SET usage_count = GREATEST(usage_count - 1, 0)
		WHERE tag_id IN (SELECT tag_id FROM unlinked);`,
		tenantID, resourceType, resourceID, tagIDs)
	if err != nil {
		return fmt.Errorf("failed to unlink tags from %s %s: %w", resourceType, resourceID, err)
	}
	return nil
}

// ListTags returns active tags whose normalized name contains search, most used first.
func (r *PgxTagRepository) ListTags(ctx context.Context, tenantID, search string, limit int) ([]domain.Tag, error) {
	return queryTags(ctx, r.Pool, `SELECT `+tagColumns+` FROM tags t
		WHERE t.tenant_id = $1 AND t.is_active AND t.deleted_at IS NULL
		AND ($2 = '' OR strpos(t.name_normalized, $2) > 0)
		ORDER BY t.usage_count DESC, t.name_normalized
		LIMIT $3;`, tenantID, search, limit)
}

// ListTagsForResource returns the tags linked to a resource.
func (r *PgxTagRepository) ListTagsForResource(ctx context.Context, tenantID, resourceType, resourceID string) ([]domain.Tag, error) {
	return queryTags(ctx, r.Pool, `SELECT `+tagColumns+` FROM tags t
		JOIN tag_links l ON l.tag_id = t.tag_id
		WHERE l.tenant_id = $1 AND l.resource_type = $2 AND l.resource_id = $3 AND t.deleted_at IS NULL
		ORDER BY t.name_normalized;`, tenantID, resourceType, resourceID)
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func queryTags(ctx context.Context, db querier, query string, args ...any) ([]domain.Tag, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Tag])
	if err != nil {
		return nil, fmt.Errorf("failed to scan tags: %w", err)
	}
	return mapping.ToDomainTagSlice(ms), nil
}
