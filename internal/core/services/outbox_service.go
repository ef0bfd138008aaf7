package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/gym_document_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/gym_document_engine/internal/core/ports/services"
	"github.com/SscSPs/gym_document_engine/internal/utils/pagination"
)

// outboxService lets an external dispatcher poll and acknowledge lifecycle events.
type outboxService struct {
	BaseService
	outboxRepo portsrepo.OutboxRepository
}

// NewOutboxService creates a new outbox service with the provided options
func NewOutboxService(repo portsrepo.OutboxRepository, options ...ServiceOption) portssvc.OutboxSvc {
	svc := &outboxService{outboxRepo: repo}
	for _, option := range options {
		option(&svc.BaseService)
	}
	return svc
}

var _ portssvc.OutboxSvc = (*outboxService)(nil)

func (s *outboxService) ListPending(ctx context.Context, tenantID, userID string, limit int) ([]domain.OutboxEvent, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAccountant); err != nil {
		return nil, err
	}
	events, err := s.outboxRepo.ListPending(ctx, tenantID, s.CurrentTime(), pagination.ClampLimit(limit))
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending outbox events", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if events == nil {
		return []domain.OutboxEvent{}, nil
	}
	return events, nil
}

// MarkProcessing claims an event for delivery and counts the attempt.
func (s *outboxService) MarkProcessing(ctx context.Context, tenantID, eventID, userID string) (*domain.OutboxEvent, error) {
	return s.update(ctx, tenantID, eventID, userID, func(e *domain.OutboxEvent) error {
		if e.Status != domain.OutboxPending && e.Status != domain.OutboxFailed {
			return apperrors.NewValidationFailedError("status", fmt.Sprintf("event is %s and cannot be claimed", e.Status))
		}
		e.Status = domain.OutboxProcessing
		e.Attempts++
		return nil
	})
}

func (s *outboxService) MarkDone(ctx context.Context, tenantID, eventID, userID string) (*domain.OutboxEvent, error) {
	return s.update(ctx, tenantID, eventID, userID, func(e *domain.OutboxEvent) error {
		if e.Status == domain.OutboxDone {
			return nil
		}
		now := s.CurrentTime()
		e.Status = domain.OutboxDone
		e.ProcessedAt = &now
		e.NextAttemptAt = nil
		return nil
	})
}

// MarkFailed records the error and schedules the next attempt with exponential backoff.
func (s *outboxService) MarkFailed(ctx context.Context, tenantID, eventID, userID, reason string) (*domain.OutboxEvent, error) {
	return s.update(ctx, tenantID, eventID, userID, func(e *domain.OutboxEvent) error {
		if e.Status == domain.OutboxDone {
			return apperrors.NewValidationFailedError("status", "event is already delivered")
		}
		next := s.CurrentTime().Add(domain.RetryBackoff(e.Attempts))
		e.Status = domain.OutboxFailed
		e.LastError = &reason
		e.NextAttemptAt = &next
		return nil
	})
}

func (s *outboxService) update(ctx context.Context, tenantID, eventID, userID string, apply func(*domain.OutboxEvent) error) (*domain.OutboxEvent, error) {
	if _, err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAccountant); err != nil {
		return nil, err
	}
	event, err := s.outboxRepo.FindEvent(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	if err := apply(event); err != nil {
		return nil, err
	}
	event.Touch(userID, s.CurrentTime())
	if err := s.outboxRepo.UpdateEvent(ctx, *event); err != nil {
		s.LogError(ctx, err, "Failed to update outbox event", slog.String("event_id", eventID))
		return nil, err
	}
	s.LogInfo(ctx, "Outbox event updated",
		slog.String("event_id", eventID),
		slog.String("status", string(event.Status)),
		slog.Int("attempts", event.Attempts))
	return event, nil
}
