// Package gormstore implements the repository ports on top of gorm, so the engine can run
// against Postgres through gorm or against SQLite for local use and tests.
package gormstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AutoMigrate creates or updates every table from the models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// NewRepositoryProvider wires every gorm repository onto one database handle.
func NewRepositoryProvider(db *gorm.DB) portsrepo.RepositoryProvider {
	base := baseRepository{db: db}
	return portsrepo.RepositoryProvider{
		TenantRepo:     &TenantRepository{base},
		AccountRepo:    &AccountRepository{base},
		CostCenterRepo: &CostCenterRepository{base},
		TaxRepo:        &TaxRepository{base},
		DocumentRepo:   &DocumentRepository{base},
		NumberRepo:     &NumberSettingRepository{base},
		OutboxRepo:     &OutboxRepository{base},
		TagRepo:        &TagRepository{base},
		AttachmentRepo: &AttachmentRepository{base},
		TokenRepo:      &IntegrationTokenRepository{base},
	}
}

type baseRepository struct {
	db *gorm.DB
}

func (r baseRepository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// snapshot runs fn in one transaction so multi-statement reads see a single state. Postgres gets
// a read-only repeatable read transaction; SQLite transactions are serializable already.
func (r baseRepository) snapshot(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db := r.conn(ctx)
	if db.Dialector.Name() == "postgres" {
		return db.Transaction(fn, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}
	return db.Transaction(fn)
}

// forUpdate adds a row lock where the dialect supports one. SQLite serializes writers instead.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// translateWriteError maps duplicate keys to ErrDuplicate and wraps anything else.
func translateWriteError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, what)
	}
	return fmt.Errorf("failed to save %s: %w", what, err)
}

// translateReadError maps gorm.ErrRecordNotFound to ErrNotFound and wraps anything else.
func translateReadError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}

// likeContains builds a LIKE pattern matching s anywhere, with wildcards in s escaped.
func likeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
