package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/SscSPs/gym_document_engine/internal/utils/accounting"
	"github.com/google/uuid"
)

const minJournalLines = 2

var cancelledNote = "document cancelled"

// transition is the loaded state a lifecycle step works on.
type transition struct {
	doc  *domain.Document
	from domain.DocumentStatus
	to   domain.DocumentStatus
	now  time.Time
}

// beginTransition loads the visible document, checks the caller's view of its status and the
// state machine. Nothing is written.
func (s *documentService) beginTransition(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest, to domain.DocumentStatus) (*transition, error) {
	filter, err := s.accessFor(ctx, tenantID, userID, domain.RoleMember)
	if err != nil {
		return nil, err
	}
	doc, err := s.docRepo.FindDocumentByID(ctx, tenantID, documentID, filter)
	if err != nil {
		return nil, err
	}
	if req.FromStatus != doc.Status {
		s.LogDebug(ctx, "Stale transition request",
			slog.String("document_id", documentID),
			slog.String("expected", string(req.FromStatus)),
			slog.String("actual", string(doc.Status)))
		return nil, apperrors.NewStaleStateError(documentID, string(req.FromStatus), string(doc.Status))
	}
	if !domain.CanTransition(doc.Status, to) {
		return nil, apperrors.NewInvalidTransitionError(documentID, string(doc.Status), string(to))
	}
	return &transition{doc: doc, from: doc.Status, to: to, now: s.CurrentTime()}, nil
}

// commitFor builds the guarded commit that moves the document to t.to.
func (t *transition) commitFor(userID string, reason *string) portsrepo.TransitionCommit {
	next := *t.doc
	next.Status = t.to
	next.Version = t.doc.Version + 1
	next.StampTransition(t.to, t.now)
	next.Touch(userID, t.now)

	return portsrepo.TransitionCommit{
		TenantID:        t.doc.TenantID,
		DocumentID:      t.doc.DocumentID,
		ExpectedStatus:  t.from,
		ExpectedVersion: t.doc.Version,
		Document:        next,
		History: &domain.StatusHistory{
			HistoryID:  uuid.NewString(),
			DocumentID: t.doc.DocumentID,
			FromStatus: t.from,
			ToStatus:   t.to,
			ChangedBy:  userID,
			Reason:     reason,
			ChangedAt:  t.now,
		},
		UpdatedBy: userID,
		UpdatedAt: t.now,
	}
}

// commit applies the commit and returns the new document state.
func (s *documentService) commit(ctx context.Context, c portsrepo.TransitionCommit) (*domain.Document, error) {
	if err := s.docRepo.CommitTransition(ctx, c); err != nil {
		if !errors.Is(err, apperrors.ErrStaleState) {
			s.LogError(ctx, err, "Failed to commit document transition",
				slog.String("document_id", c.DocumentID),
				slog.String("to", string(c.Document.Status)))
		}
		return nil, err
	}
	doc := c.Document
	if len(c.AccountLines) > 0 {
		doc.AccountLines = append(append([]domain.DocumentAccountLine{}, doc.AccountLines...), c.AccountLines...)
	}
	s.LogInfo(ctx, "Document transition committed",
		slog.String("document_id", c.DocumentID),
		slog.String("from", string(c.ExpectedStatus)),
		slog.String("to", string(doc.Status)),
		slog.Int64("version", doc.Version))
	return &doc, nil
}

func requireReason(reason *string) (*string, error) {
	if reason == nil || strings.TrimSpace(*reason) == "" {
		return nil, apperrors.NewValidationFailedError("reason", "a reason is required")
	}
	r := strings.TrimSpace(*reason)
	return &r, nil
}

func (s *documentService) checkPermission(ctx context.Context, tenantID, userID string, check func(context.Context, string, string) (bool, error), action string) error {
	ok, err := check(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewForbiddenError(fmt.Sprintf("not allowed to %s documents", action))
	}
	return nil
}

func (s *documentService) canApprove(ctx context.Context, tenantID, userID string) error {
	if s.permissions == nil {
		return nil
	}
	return s.checkPermission(ctx, tenantID, userID, s.permissions.CanApprove, "approve")
}

func (s *documentService) canPost(ctx context.Context, tenantID, userID string) error {
	if s.permissions == nil {
		return nil
	}
	return s.checkPermission(ctx, tenantID, userID, s.permissions.CanPost, "post")
}

// Submit sends a draft (or a document under revision) for approval.
func (s *documentService) Submit(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error) {
	t, err := s.beginTransition(ctx, tenantID, documentID, userID, req, domain.StatusSubmitted)
	if err != nil {
		return nil, err
	}
	doc := t.doc

	docType, ok := domain.LookupDocumentType(doc.DocumentKey)
	if !ok {
		return nil, apperrors.NewValidationFailedError("documentKey", fmt.Sprintf("unknown document key '%s'", doc.DocumentKey))
	}
	if docType.RequiresItems && len(doc.Items) == 0 {
		return nil, apperrors.NewValidationFailedError("items", "at least one item is required to submit")
	}
	if doc.Module == domain.ModuleAccounting {
		if err := validateJournalForSubmit(doc); err != nil {
			return nil, err
		}
	}
	if doc.Total.IsNegative() {
		return nil, apperrors.NewValidationFailedError("total", "document total cannot be negative")
	}

	c := t.commitFor(userID, req.Reason)
	steps := docType.ApprovalSteps
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		c.CreateApprovals = append(c.CreateApprovals, domain.DocumentApproval{
			ApprovalID:  uuid.NewString(),
			DocumentID:  documentID,
			StepIndex:   i,
			Status:      domain.ApprovalPending,
			RequestedBy: userID,
			CreatedAt:   t.now,
		})
	}
	return s.commit(ctx, c)
}

func validateJournalForSubmit(doc *domain.Document) error {
	lines, err := domain.JournalLinesFromMetadata(doc.Metadata)
	if err != nil {
		return apperrors.NewValidationFailedError("metadata.journalLines", err.Error())
	}
	if len(lines) < minJournalLines {
		return apperrors.NewValidationFailedError("metadata.journalLines",
			fmt.Sprintf("a journal entry needs at least %d lines", minJournalLines))
	}
	for i, l := range lines {
		line := domain.DocumentAccountLine{AccountID: l.AccountID, DebitAmount: l.DebitAmount, CreditAmount: l.CreditAmount, SortOrder: i}
		if l.AccountID == "" {
			return apperrors.NewValidationFailedError(fmt.Sprintf("metadata.journalLines[%d].accountID", i), "account is required")
		}
		if err := line.Validate(); err != nil {
			return apperrors.NewValidationFailedError(fmt.Sprintf("metadata.journalLines[%d]", i), err.Error())
		}
	}
	return nil
}

// Approve decides the lowest pending approval step. The document becomes APPROVED when the
// last step is approved; every step bumps the version.
func (s *documentService) Approve(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error) {
	t, err := s.beginTransition(ctx, tenantID, documentID, userID, req, domain.StatusApproved)
	if err != nil {
		return nil, err
	}
	if err := s.canApprove(ctx, tenantID, userID); err != nil {
		return nil, err
	}

	approvals, err := s.docRepo.ListApprovals(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load approvals: %w", err)
	}
	step := domain.NextPendingApproval(approvals)
	submitter, err := s.isSubmitter(ctx, documentID, userID, step)
	if err != nil {
		return nil, err
	}
	if submitter {
		s.LogDebug(ctx, "Submitter attempted to approve own document",
			slog.String("document_id", documentID),
			slog.String("user_id", userID))
		return nil, apperrors.NewForbiddenError("the submitter cannot approve their own document")
	}

	c := t.commitFor(userID, req.Reason)
	if step != nil {
		c.DecideApproval = &portsrepo.ApprovalDecision{
			ApprovalID: step.ApprovalID,
			Status:     domain.ApprovalApproved,
			DecidedBy:  userID,
			DecidedAt:  t.now,
			Notes:      req.Reason,
		}
		if domain.CountPending(approvals) > 1 {
			// Intermediate step: the status stays SUBMITTED.
			next := *t.doc
			next.Version = t.doc.Version + 1
			next.Touch(userID, t.now)
			c.Document = next
			c.History = nil
		}
	}
	return s.commit(ctx, c)
}

// isSubmitter reports whether userID submitted the document, from the pending step or, failing
// that, from the latest SUBMITTED history row.
// A history read failure is returned so the caller refuses the approval.
func (s *documentService) isSubmitter(ctx context.Context, documentID, userID string, step *domain.DocumentApproval) (bool, error) {
	if step != nil {
		return step.RequestedBy == userID, nil
	}
	history, err := s.docRepo.ListStatusHistory(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("failed to load status history: %w", err)
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].ToStatus == domain.StatusSubmitted {
			return history[i].ChangedBy == userID, nil
		}
	}
	return false, nil
}

// Reject ends the document. A reason is required.
func (s *documentService) Reject(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error) {
	return s.decide(ctx, tenantID, documentID, userID, req, domain.StatusRejected, domain.ApprovalRejected)
}

// RequestRevision sends the document back to its author. A reason is required.
func (s *documentService) RequestRevision(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error) {
	return s.decide(ctx, tenantID, documentID, userID, req, domain.StatusRevisionRequested, domain.ApprovalRevisionRequested)
}

func (s *documentService) decide(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest, to domain.DocumentStatus, resolve domain.ApprovalStatus) (*domain.Document, error) {
	reason, err := requireReason(req.Reason)
	if err != nil {
		return nil, err
	}
	t, err := s.beginTransition(ctx, tenantID, documentID, userID, req, to)
	if err != nil {
		return nil, err
	}
	if err := s.canApprove(ctx, tenantID, userID); err != nil {
		return nil, err
	}

	c := t.commitFor(userID, reason)
	c.ResolvePending = &resolve
	c.ResolveNotes = reason
	return s.commit(ctx, c)
}

// Post writes the ledger lines produced by the module's posting rule. The status change,
// lines, history and outbox event are committed together or not at all.
func (s *documentService) Post(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error) {
	t, err := s.beginTransition(ctx, tenantID, documentID, userID, req, domain.StatusPosted)
	if err != nil {
		return nil, err
	}
	if err := s.canPost(ctx, tenantID, userID); err != nil {
		return nil, err
	}

	docType, ok := domain.LookupDocumentType(t.doc.DocumentKey)
	if !ok {
		return nil, apperrors.NewValidationFailedError("documentKey", fmt.Sprintf("unknown document key '%s'", t.doc.DocumentKey))
	}
	rule, ok := s.postingRules[t.doc.Module]
	if !ok {
		return nil, apperrors.NewValidationFailedError("module", fmt.Sprintf("no posting rule for module %s", t.doc.Module))
	}

	c := t.commitFor(userID, req.Reason)
	proposed, err := rule(PostingInput{Document: c.Document, Type: docType, Accounts: s.postingAccounts})
	if err != nil {
		return nil, err
	}
	lines, err := s.resolvePostingLines(ctx, c.Document, proposed, userID, t.now)
	if err != nil {
		return nil, err
	}
	debits, credits := accounting.SumSides(lines)
	if !debits.Equal(credits) {
		s.LogDebug(ctx, "Posting rejected, ledger not balanced",
			slog.String("document_id", documentID),
			slog.String("debits", debits.StringFixed(2)),
			slog.String("credits", credits.StringFixed(2)))
		return nil, apperrors.NewUnbalancedLedgerError(documentID, debits.StringFixed(2), credits.StringFixed(2))
	}

	c.AccountLines = lines
	c.OutboxEvents = []domain.OutboxEvent{lifecycleEvent(c.Document, domain.EventSuffixPosted, userID, t.now)}
	return s.commit(ctx, c)
}

// resolvePostingLines validates each proposed line and binds it to an active account and cost
// center of the tenant.
func (s *documentService) resolvePostingLines(ctx context.Context, doc domain.Document, proposed []PostingLine, userID string, now time.Time) ([]domain.DocumentAccountLine, error) {
	if len(proposed) == 0 {
		return []domain.DocumentAccountLine{}, nil
	}

	var codes, ids, ccIDs []string
	for _, p := range proposed {
		switch {
		case p.AccountID != "":
			ids = append(ids, p.AccountID)
		case p.AccountCode != "":
			codes = append(codes, p.AccountCode)
		}
		if p.CostCenterID != nil {
			ccIDs = append(ccIDs, *p.CostCenterID)
		}
	}

	if s.accounts == nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "posting requires an account resolver", apperrors.ErrInternal)
	}
	byCode, err := s.accounts.ResolveByCodes(ctx, doc.TenantID, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve posting accounts: %w", err)
	}
	byID, err := s.accounts.ResolveByIDs(ctx, doc.TenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve posting accounts: %w", err)
	}
	costCenters := map[string]domain.CostCenter{}
	if len(ccIDs) > 0 {
		if s.costCenters == nil {
			return nil, apperrors.NewValidationFailedError("costCenterID", "cost centers cannot be resolved")
		}
		if costCenters, err = s.costCenters.ResolveCostCentersByIDs(ctx, doc.TenantID, ccIDs); err != nil {
			return nil, fmt.Errorf("failed to resolve cost centers: %w", err)
		}
	}

	lines := make([]domain.DocumentAccountLine, 0, len(proposed))
	for i, p := range proposed {
		field := fmt.Sprintf("accountLines[%d]", i)

		var account domain.ChartOfAccount
		var found bool
		if p.AccountID != "" {
			account, found = byID[p.AccountID]
		} else {
			account, found = byCode[p.AccountCode]
		}
		if !found {
			ref := p.AccountID
			if ref == "" {
				ref = "code " + p.AccountCode
			}
			return nil, apperrors.NewValidationFailedError(field+".accountID", fmt.Sprintf("account %s not found in tenant", ref))
		}
		if !account.IsActive {
			return nil, apperrors.NewValidationFailedError(field+".accountID", fmt.Sprintf("account %s is inactive", account.Code))
		}
		if p.CostCenterID != nil {
			cc, ok := costCenters[*p.CostCenterID]
			if !ok {
				return nil, apperrors.NewValidationFailedError(field+".costCenterID", "cost center not found in tenant")
			}
			if !cc.IsActive {
				return nil, apperrors.NewValidationFailedError(field+".costCenterID", fmt.Sprintf("cost center %s is inactive", cc.Code))
			}
		}

		line := domain.DocumentAccountLine{
			AccountLineID: uuid.NewString(),
			TenantID:      doc.TenantID,
			DocumentID:    doc.DocumentID,
			AccountID:     account.AccountID,
			DebitAmount:   accounting.RoundMoney(p.DebitAmount),
			CreditAmount:  accounting.RoundMoney(p.CreditAmount),
			CostCenterID:  p.CostCenterID,
			SortOrder:     i,
			AuditFields:   domain.NewAuditFields(userID, now),
		}
		if p.Description != "" {
			desc := p.Description
			line.Description = &desc
		}
		if err := line.Validate(); err != nil {
			return nil, apperrors.NewValidationFailedError(field, err.Error())
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Cancel ends the document. Postings are never deleted: cancelling a POSTED document writes
// reversing lines and announces the cancellation in the outbox.
func (s *documentService) Cancel(ctx context.Context, tenantID, documentID, userID string, req dto.TransitionRequest) (*domain.Document, error) {
	t, err := s.beginTransition(ctx, tenantID, documentID, userID, req, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}

	c := t.commitFor(userID, req.Reason)
	switch t.from {
	case domain.StatusPosted:
		if err := s.canPost(ctx, tenantID, userID); err != nil {
			return nil, err
		}
		c.AccountLines = reversingLines(t.doc, userID, t.now)
		c.OutboxEvents = []domain.OutboxEvent{lifecycleEvent(c.Document, domain.EventSuffixCancelled, userID, t.now)}
	case domain.StatusSubmitted:
		rejected := domain.ApprovalRejected
		notes := cancelledNote
		if req.Reason != nil && strings.TrimSpace(*req.Reason) != "" {
			notes = strings.TrimSpace(*req.Reason)
		}
		c.ResolvePending = &rejected
		c.ResolveNotes = &notes
	}
	return s.commit(ctx, c)
}

// reversingLines mirrors every original posting of the document.
func reversingLines(doc *domain.Document, userID string, now time.Time) []domain.DocumentAccountLine {
	out := make([]domain.DocumentAccountLine, 0, len(doc.AccountLines))
	next := len(doc.AccountLines)
	for _, l := range doc.AccountLines {
		if _, isReversal := l.Metadata[domain.MetadataReversalOf]; isReversal {
			continue
		}
		r := l.Reversed()
		r.AccountLineID = uuid.NewString()
		r.SortOrder = next
		r.AuditFields = domain.NewAuditFields(userID, now)
		next++
		out = append(out, r)
	}
	return out
}

// lifecycleEvent builds the outbox event announcing a lifecycle step of the document.
func lifecycleEvent(doc domain.Document, suffix, userID string, now time.Time) domain.OutboxEvent {
	payload := map[string]any{
		"documentID":   doc.DocumentID,
		"documentKey":  doc.DocumentKey,
		"module":       string(doc.Module),
		"number":       doc.Number,
		"status":       string(doc.Status),
		"currencyCode": doc.CurrencyCode,
		"total":        doc.Total.StringFixed(2),
		"version":      doc.Version,
	}
	if doc.PostingDate != nil {
		payload["postingDate"] = doc.PostingDate.Format("2006-01-02")
	}
	return domain.OutboxEvent{
		EventID:     uuid.NewString(),
		TenantID:    doc.TenantID,
		DocumentID:  doc.DocumentID,
		EventKey:    domain.EventKeyFor(doc.DocumentKey, suffix),
		Payload:     payload,
		Status:      domain.OutboxPending,
		AuditFields: domain.NewAuditFields(userID, now),
	}
}
