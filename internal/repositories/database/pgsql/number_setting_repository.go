package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/models"
	"github.com/SscSPs/gym_document_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const numberSettingColumns = `tenant_id, document_key, prefix, padding_length, include_period, period_format,
	current_counter, last_period, created_at, created_by, last_updated_at, last_updated_by, deleted_at, deleted_by`

type PgxNumberSettingRepository struct {
	BaseRepository
}

func newPgxNumberSettingRepository(pool *pgxpool.Pool) portsrepo.NumberSettingRepository {
	return &PgxNumberSettingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NumberSettingRepository = (*PgxNumberSettingRepository)(nil)

// NextNumber creates the setting from defaults when missing, locks it and stores the advanced counter.
func (r *PgxNumberSettingRepository) NextNumber(ctx context.Context, tenantID, documentKey string, defaults domain.NumberSetting, advance func(*domain.NumberSetting) string) (string, error) {
	var number string
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		if err := insertSetting(ctx, tx, mapping.ToModelNumberSetting(defaults), false); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, `SELECT `+numberSettingColumns+` FROM document_number_settings
			WHERE tenant_id = $1 AND document_key = $2 FOR UPDATE;`, tenantID, documentKey)
		if err != nil {
			return fmt.Errorf("failed to lock number setting %s: %w", documentKey, err)
		}
		m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.NumberSetting])
		if err != nil {
			return translateReadError(err, "number setting "+documentKey)
		}
		setting := mapping.ToDomainNumberSetting(m)
		number = advance(&setting)
		_, err = tx.Exec(ctx, `UPDATE document_number_settings
			SET current_counter = $3, last_period = $4
			WHERE tenant_id = $1 AND document_key = $2;`,
			tenantID, documentKey, setting.CurrentCounter, setting.LastPeriod)
		if err != nil {
			return fmt.Errorf("failed to advance number setting %s: %w", documentKey, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

// ListSettings returns the stored settings of a tenant.
func (r *PgxNumberSettingRepository) ListSettings(ctx context.Context, tenantID string) ([]domain.NumberSetting, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+numberSettingColumns+` FROM document_number_settings
		WHERE tenant_id = $1 AND deleted_at IS NULL ORDER BY document_key;`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list number settings: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.NumberSetting])
	if err != nil {
		return nil, fmt.Errorf("failed to scan number settings: %w", err)
	}
	out := make([]domain.NumberSetting, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainNumberSetting(m))
	}
	return out, nil
}

// FindSetting returns one setting.
func (r *PgxNumberSettingRepository) FindSetting(ctx context.Context, tenantID, documentKey string) (*domain.NumberSetting, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+numberSettingColumns+` FROM document_number_settings
		WHERE tenant_id = $1 AND document_key = $2 AND deleted_at IS NULL;`, tenantID, documentKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query number setting %s: %w", documentKey, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.NumberSetting])
	if err != nil {
		return nil, translateReadError(err, "number setting "+documentKey)
	}
	d := mapping.ToDomainNumberSetting(m)
	return &d, nil
}

// SaveSetting inserts or replaces a setting. The counter is kept as given.
func (r *PgxNumberSettingRepository) SaveSetting(ctx context.Context, setting domain.NumberSetting) error {
	return insertSetting(ctx, r.Pool, mapping.ToModelNumberSetting(setting), true)
}

func insertSetting(ctx context.Context, db execer, m models.NumberSetting, replace bool) error {
	conflict := `ON CONFLICT (tenant_id, document_key) DO NOTHING`
	if replace {
		conflict = `ON CONFLICT (tenant_id, document_key) DO UPDATE SET
			prefix = EXCLUDED.prefix, padding_length = EXCLUDED.padding_length,
			include_period = EXCLUDED.include_period, period_format = EXCLUDED.period_format,
			current_counter = EXCLUDED.current_counter, last_period = EXCLUDED.last_period,
			last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by`
	}
	_, err := db.Exec(ctx, `
		INSERT INTO document_number_settings (tenant_id, document_key, prefix, padding_length, include_period,
			period_format, current_counter, last_period, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) `+conflict+`;`,
		m.TenantID, m.DocumentKey, m.Prefix, m.PaddingLength, m.IncludePeriod,
		m.PeriodFormat, m.CurrentCounter, m.LastPeriod, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "number setting "+m.DocumentKey)
	}
	return nil
}
