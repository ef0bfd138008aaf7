package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/models"
	"github.com/SscSPs/gym_document_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentColumns = `d.document_id, d.tenant_id, d.module, d.document_key, d.number, d.status,
	d.access_scope, d.access_role_id, d.access_user_id, d.document_date, d.due_date, d.posting_date,
	d.currency_code, d.exchange_rate, d.person_id, d.person_name,
	d.subtotal, d.discount_total, d.tax_total, d.total, d.metadata, d.notes,
	d.submitted_at, d.approved_at, d.posted_at, d.cancelled_at, d.rejected_at, d.revision_requested_at,
	d.version, d.created_at, d.created_by, d.last_updated_at, d.last_updated_by, d.deleted_at, d.deleted_by`

const itemColumns = `document_item_id, document_id, item_id, item_name, item_type, description,
	quantity, unit_price, discount_amount, tax_amount, line_total, dimensions, metadata, sort_order,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at, deleted_by`

const taxLineColumns = `tax_line_id, tenant_id, document_id, document_item_id, tax_id, tax_name, tax_type,
	tax_rate, tax_amount, taxable_base,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at, deleted_by`

const accountLineColumns = `account_line_id, tenant_id, document_id, account_id, description,
	debit_amount, credit_amount, cost_center_id, metadata, sort_order,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at, deleted_by`

const historyColumns = `history_id, document_id, from_status, to_status, changed_by, reason, changed_at`

const approvalColumns = `approval_id, document_id, step_index, status, requested_by, decided_by, decided_at, notes, created_at`

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for documents and their lifecycle records.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

// queryArgs collects positional arguments while a query is being built.
type queryArgs []any

func (a *queryArgs) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// accessClause renders the visibility predicate for the caller into the query.
func accessClause(args *queryArgs, filter domain.AccessFilter) string {
	user := args.add(filter.UserID)
	roles := args.add(filter.RoleIDs)
	return fmt.Sprintf(`(d.access_scope = 'TENANT'
		OR (d.access_scope = 'CREATOR' AND d.created_by = %[1]s)
		OR (d.access_scope = 'ROLE' AND d.access_role_id = ANY(%[2]s))
		OR (d.access_scope = 'USER' AND d.access_user_id = %[1]s))`, user, roles)
}

// FindDocumentByID loads a visible document with its items, tax lines and account lines.
// All four reads share one snapshot so a concurrent transition cannot split header and lines.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, tenantID, documentID string, filter domain.AccessFilter) (*domain.Document, error) {
	args := queryArgs{}
	query := `SELECT ` + documentColumns + ` FROM documents d
		WHERE d.tenant_id = ` + args.add(tenantID) + `
		AND d.document_id = ` + args.add(documentID) + `
		AND d.deleted_at IS NULL
		AND ` + accessClause(&args, filter) + `;`

	var doc domain.Document
	err := r.InSnapshot(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query document %s: %w", documentID, err)
		}
		m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Document])
		if err != nil {
			return translateReadError(err, "document "+documentID)
		}
		doc = mapping.ToDomainDocument(m)
		return loadContent(ctx, tx, &doc)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func loadContent(ctx context.Context, db querier, doc *domain.Document) error {
	rows, err := db.Query(ctx, `SELECT `+itemColumns+` FROM document_items
		WHERE document_id = $1 AND deleted_at IS NULL ORDER BY sort_order;`, doc.DocumentID)
	if err != nil {
		return fmt.Errorf("failed to query items of document %s: %w", doc.DocumentID, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.DocumentItem])
	if err != nil {
		return fmt.Errorf("failed to scan items: %w", err)
	}
	for _, m := range items {
		doc.Items = append(doc.Items, mapping.ToDomainDocumentItem(m))
	}

	rows, err = db.Query(ctx, `SELECT `+taxLineColumns+` FROM document_tax_lines
		WHERE document_id = $1 AND deleted_at IS NULL ORDER BY document_item_id NULLS LAST, tax_name;`, doc.DocumentID)
	if err != nil {
		return fmt.Errorf("failed to query tax lines of document %s: %w", doc.DocumentID, err)
	}
	taxLines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.DocumentTaxLine])
	if err != nil {
		return fmt.Errorf("failed to scan tax lines: %w", err)
	}
	for _, m := range taxLines {
		doc.TaxLines = append(doc.TaxLines, mapping.ToDomainDocumentTaxLine(m))
	}

	rows, err = db.Query(ctx, `SELECT `+accountLineColumns+` FROM document_account_lines
		WHERE document_id = $1 AND deleted_at IS NULL ORDER BY sort_order;`, doc.DocumentID)
	if err != nil {
		return fmt.Errorf("failed to query account lines of document %s: %w", doc.DocumentID, err)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.DocumentAccountLine])
	if err != nil {
		return fmt.Errorf("failed to scan account lines: %w", err)
	}
	for _, m := range lines {
		doc.AccountLines = append(doc.AccountLines, mapping.ToDomainDocumentAccountLine(m))
	}
	return nil
}

// ListDocuments returns visible document headers, newest document date first.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, tenantID string, q portsrepo.ListDocumentsQuery, filter domain.AccessFilter) ([]domain.Document, error) {
	args := queryArgs{}
	var sb strings.Builder
	sb.WriteString(`SELECT ` + documentColumns + ` FROM documents d WHERE d.tenant_id = ` + args.add(tenantID))
	sb.WriteString(` AND d.deleted_at IS NULL AND ` + accessClause(&args, filter))
	if q.Module != nil {
		sb.WriteString(` AND d.module = ` + args.add(string(*q.Module)))
	}
	if q.DocumentKey != nil {
		sb.WriteString(` AND d.document_key = ` + args.add(*q.DocumentKey))
	}
	if q.Status != nil {
		sb.WriteString(` AND d.status = ` + args.add(string(*q.Status)))
	}
	if q.AfterDate != nil && q.AfterCreatedAt != nil && q.AfterID != nil {
		sb.WriteString(fmt.Sprintf(` AND (d.document_date, d.created_at, d.document_id) < (%s, %s, %s)`,
			args.add(*q.AfterDate), args.add(*q.AfterCreatedAt), args.add(*q.AfterID)))
	}
	sb.WriteString(` ORDER BY d.document_date DESC, d.created_at DESC, d.document_id DESC`)
	if q.Limit > 0 {
		sb.WriteString(` LIMIT ` + args.add(q.Limit))
	}

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Document])
	if err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}
	docs := make([]domain.Document, 0, len(ms))
	for _, m := range ms {
		docs = append(docs, mapping.ToDomainDocument(m))
	}
	return docs, nil
}

// FindDocumentStatus returns the status of a document of the tenant.
func (r *PgxDocumentRepository) FindDocumentStatus(ctx context.Context, tenantID, documentID string) (domain.DocumentStatus, error) {
	var status string
	err := r.Pool.QueryRow(ctx, `SELECT status FROM documents
		WHERE tenant_id = $1 AND document_id = $2 AND deleted_at IS NULL;`, tenantID, documentID).Scan(&status)
	if err != nil {
		return "", translateReadError(err, "document "+documentID)
	}
	return domain.DocumentStatus(status), nil
}

// ListStatusHistory returns the transitions of a document in order.
func (r *PgxDocumentRepository) ListStatusHistory(ctx context.Context, documentID string) ([]domain.StatusHistory, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+historyColumns+` FROM document_status_history
		WHERE document_id = $1 ORDER BY changed_at, history_id;`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history of document %s: %w", documentID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.DocumentStatusHistory])
	if err != nil {
		return nil, fmt.Errorf("failed to scan history: %w", err)
	}
	out := make([]domain.StatusHistory, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainStatusHistory(m))
	}
	return out, nil
}

// ListApprovals returns the approval steps of a document ordered by step index.
func (r *PgxDocumentRepository) ListApprovals(ctx context.Context, documentID string) ([]domain.DocumentApproval, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+approvalColumns+` FROM document_approvals
		WHERE document_id = $1 ORDER BY step_index, created_at;`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query approvals of document %s: %w", documentID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.DocumentApproval])
	if err != nil {
		return nil, fmt.Errorf("failed to scan approvals: %w", err)
	}
	out := make([]domain.DocumentApproval, 0, len(ms))
	for _, m := range ms {
		out = append(out, mapping.ToDomainApproval(m))
	}
	return out, nil
}

// CreateDocument persists a draft header with its items and tax lines in one transaction.
func (r *PgxDocumentRepository) CreateDocument(ctx context.Context, doc domain.Document) error {
	m := mapping.ToModelDocument(doc)
	return r.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO documents (document_id, tenant_id, module, document_key, number, status,
				access_scope, access_role_id, access_user_id, document_date, due_date, posting_date,
				currency_code, exchange_rate, person_id, person_name,
				subtotal, discount_total, tax_total, total, metadata, notes, version,
				created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
				$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27);`,
			m.DocumentID, m.TenantID, m.Module, m.DocumentKey, m.Number, m.Status,
			m.AccessScope, m.AccessRoleID, m.AccessUserID, m.DocumentDate, m.DueDate, m.PostingDate,
			m.CurrencyCode, m.ExchangeRate, m.PersonID, m.PersonName,
			m.Subtotal, m.DiscountTotal, m.TaxTotal, m.Total, m.Metadata, m.Notes, m.Version,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return translateWriteError(err, fmt.Sprintf("document %s %s", m.DocumentKey, m.Number))
		}

		batch := &pgx.Batch{}
		queueContent(batch, doc)
		return sendBatch(ctx, tx, batch)
	})
}

// ReplaceDraftContent swaps the items and tax lines of an editable document.
func (r *PgxDocumentRepository) ReplaceDraftContent(ctx context.Context, rep portsrepo.ContentReplacement) error {
	doc := rep.Document
	m := mapping.ToModelDocument(doc)
	return r.InTx(ctx, func(tx pgx.Tx) error {
		if err := lockAndCheck(ctx, tx, doc.TenantID, doc.DocumentID, rep.ExpectedStatus, rep.ExpectedVersion); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			UPDATE documents
			SET status = $3, subtotal = $4, discount_total = $5, tax_total = $6, total = $7,
				metadata = $8, notes = $9, version = $10, last_updated_at = $11, last_updated_by = $12
			WHERE tenant_id = $1 AND document_id = $2;`,
			m.TenantID, m.DocumentID, m.Status, m.Subtotal, m.DiscountTotal, m.TaxTotal, m.Total,
			m.Metadata, m.Notes, m.Version, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to update document %s: %w", doc.DocumentID, err)
		}

		batch := &pgx.Batch{}
		batch.Queue(`UPDATE document_tax_lines SET deleted_at = $2, deleted_by = $3
			WHERE document_id = $1 AND deleted_at IS NULL;`, doc.DocumentID, doc.LastUpdatedAt, doc.LastUpdatedBy)
		batch.Queue(`UPDATE document_items SET deleted_at = $2, deleted_by = $3
			WHERE document_id = $1 AND deleted_at IS NULL;`, doc.DocumentID, doc.LastUpdatedAt, doc.LastUpdatedBy)
		queueContent(batch, doc)
		if rep.History != nil {
			queueHistory(batch, *rep.History)
		}
		return sendBatch(ctx, tx, batch)
	})
}

// CommitTransition applies every write of a lifecycle step in one transaction.
// The document row is locked and its status and version compared before anything is written.
func (r *PgxDocumentRepository) CommitTransition(ctx context.Context, c portsrepo.TransitionCommit) error {
	m := mapping.ToModelDocument(c.Document)
	return r.InTx(ctx, func(tx pgx.Tx) error {
		if err := lockAndCheck(ctx, tx, c.TenantID, c.DocumentID, c.ExpectedStatus, c.ExpectedVersion); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			UPDATE documents
			SET status = $3, version = $4, posting_date = $5,
				submitted_at = $6, approved_at = $7, posted_at = $8, cancelled_at = $9,
				rejected_at = $10, revision_requested_at = $11,
				last_updated_at = $12, last_updated_by = $13
			WHERE tenant_id = $1 AND document_id = $2;`,
			c.TenantID, c.DocumentID, m.Status, m.Version, m.PostingDate,
			m.SubmittedAt, m.ApprovedAt, m.PostedAt, m.CancelledAt,
			m.RejectedAt, m.RevisionRequestedAt,
			c.UpdatedAt, c.UpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to update document %s: %w", c.DocumentID, err)
		}

		batch := &pgx.Batch{}
		if c.History != nil {
			queueHistory(batch, *c.History)
		}
		for _, a := range c.CreateApprovals {
			am := mapping.ToModelApproval(a)
			batch.Queue(`INSERT INTO document_approvals (`+approvalColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
				am.ApprovalID, am.DocumentID, am.StepIndex, am.Status, am.RequestedBy,
				am.DecidedBy, am.DecidedAt, am.Notes, am.CreatedAt)
		}
		if d := c.DecideApproval; d != nil {
			batch.Queue(`UPDATE document_approvals SET status = $3, decided_by = $4, decided_at = $5, notes = $6
				WHERE document_id = $1 AND approval_id = $2;`,
				c.DocumentID, d.ApprovalID, string(d.Status), d.DecidedBy, d.DecidedAt, d.Notes)
		}
		if c.ResolvePending != nil {
			batch.Queue(`UPDATE document_approvals SET status = $2, decided_by = $3, decided_at = $4, notes = $5
				WHERE document_id = $1 AND status = 'PENDING';`,
				c.DocumentID, string(*c.ResolvePending), c.UpdatedBy, c.UpdatedAt, c.ResolveNotes)
		}
		for _, l := range c.AccountLines {
			lm := mapping.ToModelDocumentAccountLine(l)
			batch.Queue(`INSERT INTO document_account_lines (account_line_id, tenant_id, document_id, account_id,
					description, debit_amount, credit_amount, cost_center_id, metadata, sort_order,
					created_at, created_by, last_updated_at, last_updated_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
				lm.AccountLineID, lm.TenantID, lm.DocumentID, lm.AccountID,
				lm.Description, lm.DebitAmount, lm.CreditAmount, lm.CostCenterID, lm.Metadata, lm.SortOrder,
				lm.CreatedAt, lm.CreatedBy, lm.LastUpdatedAt, lm.LastUpdatedBy)
		}
		for _, e := range c.OutboxEvents {
			em := mapping.ToModelOutboxEvent(e)
			// The document row lock serializes version assignment per document.
			batch.Queue(`INSERT INTO outbox_events (event_id, tenant_id, document_id, event_key, event_version,
					payload, status, attempts, next_attempt_at,
					created_at, created_by, last_updated_at, last_updated_by)
				SELECT $1, $2, $3, $4, COALESCE(MAX(event_version), 0) + 1, $5, $6, 0, $7, $8, $9, $10, $11
				FROM outbox_events WHERE document_id = $3 AND event_key = $4;`,
				em.EventID, em.TenantID, em.DocumentID, em.EventKey,
				em.Payload, em.Status, em.NextAttemptAt,
				em.CreatedAt, em.CreatedBy, em.LastUpdatedAt, em.LastUpdatedBy)
		}
		return sendBatch(ctx, tx, batch)
	})
}

// lockAndCheck locks the document row and verifies the optimistic concurrency guard.
func lockAndCheck(ctx context.Context, tx pgx.Tx, tenantID, documentID string, expectedStatus domain.DocumentStatus, expectedVersion int64) error {
	var status string
	var version int64
	err := tx.QueryRow(ctx, `SELECT status, version FROM documents
		WHERE tenant_id = $1 AND document_id = $2 AND deleted_at IS NULL
		FOR UPDATE;`, tenantID, documentID).Scan(&status, &version)
	if err != nil {
		return translateReadError(err, "document "+documentID)
	}
	if status != string(expectedStatus) {
		return apperrors.NewStaleStateError(documentID, string(expectedStatus), status)
	}
	if version != expectedVersion {
		return apperrors.NewStaleStateError(documentID, "", "")
	}
	return nil
}

func queueContent(batch *pgx.Batch, doc domain.Document) {
	for _, item := range doc.Items {
		im := mapping.ToModelDocumentItem(item)
		batch.Queue(`INSERT INTO document_items (document_item_id, document_id, item_id, item_name, item_type,
				description, quantity, unit_price, discount_amount, tax_amount, line_total, dimensions, metadata,
				sort_order, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`,
			im.DocumentItemID, im.DocumentID, im.ItemID, im.ItemName, im.ItemType,
			im.Description, im.Quantity, im.UnitPrice, im.DiscountAmount, im.TaxAmount, im.LineTotal,
			im.Dimensions, im.Metadata, im.SortOrder,
			im.CreatedAt, im.CreatedBy, im.LastUpdatedAt, im.LastUpdatedBy)
	}
	for _, tl := range doc.TaxLines {
		tm := mapping.ToModelDocumentTaxLine(tl)
		batch.Queue(`INSERT INTO document_tax_lines (tax_line_id, tenant_id, document_id, document_item_id, tax_id,
				tax_name, tax_type, tax_rate, tax_amount, taxable_base,
				created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
			tm.TaxLineID, tm.TenantID, tm.DocumentID, tm.DocumentItemID, tm.TaxID,
			tm.TaxName, tm.TaxType, tm.TaxRate, tm.TaxAmount, tm.TaxableBase,
			tm.CreatedAt, tm.CreatedBy, tm.LastUpdatedAt, tm.LastUpdatedBy)
	}
}

func queueHistory(batch *pgx.Batch, h domain.StatusHistory) {
	hm := mapping.ToModelStatusHistory(h)
	batch.Queue(`INSERT INTO document_status_history (`+historyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		hm.HistoryID, hm.DocumentID, hm.FromStatus, hm.ToStatus, hm.ChangedBy, hm.Reason, hm.ChangedAt)
}

// sendBatch executes every queued statement, stopping at the first failure.
func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return translateWriteError(err, fmt.Sprintf("batch statement %d", i))
		}
	}
	return br.Close()
}
