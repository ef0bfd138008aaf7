package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/gym_document_engine/internal/apperrors"
	"github.com/SscSPs/gym_document_engine/internal/core/domain"
	"github.com/SscSPs/gym_document_engine/internal/core/services"
	"github.com/SscSPs/gym_document_engine/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNumbering_NextNumberAdvancesDefaults(t *testing.T) {
	repo := new(MockNumberSettingRepository)
	svc := services.NewNumberingService(repo, 6, "yyyy-MM")

	var generated string
	repo.On("NextNumber", mock.Anything, "tenant-1", "sales.invoice", mock.AnythingOfType("domain.NumberSetting"), mock.Anything).
		Run(func(args mock.Arguments) {
			setting := args.Get(3).(domain.NumberSetting)
			advance := args.Get(4).(func(*domain.NumberSetting) string)
			assert.Equal(t, "INV", setting.Prefix)
			assert.Equal(t, 6, setting.PaddingLength)
			generated = advance(&setting)
			assert.Equal(t, int64(1), setting.CurrentCounter)
		}).
		Return("INV-2026-10-000001", nil).Once()

	number, err := svc.NextNumber(context.Background(), "tenant-1", "sales.invoice")

	require.NoError(t, err)
	assert.Equal(t, "INV-2026-10-000001", number)
	assert.True(t, strings.HasPrefix(generated, "INV-"), generated)
	assert.True(t, strings.HasSuffix(generated, "-000001"), generated)
}

func TestNumbering_ListSettingsFillsDefaults(t *testing.T) {
	repo := new(MockNumberSettingRepository)
	svc := services.NewNumberingService(repo, 6, "yyyy-MM")
	stored := domain.NewNumberSetting("tenant-1", "sales.invoice", 4, "yyyy")
	stored.CurrentCounter = 12
	repo.On("ListSettings", mock.Anything, "tenant-1").Return([]domain.NumberSetting{stored}, nil).Once()

	settings, err := svc.ListSettings(context.Background(), "tenant-1", "u")

	require.NoError(t, err)
	assert.Len(t, settings, len(domain.DocumentTypes()))
	assert.Equal(t, int64(12), settings[0].CurrentCounter)
	for _, s := range settings[1:] {
		assert.NotEqual(t, "sales.invoice", s.DocumentKey)
		assert.Zero(t, s.CurrentCounter)
	}
}

func TestNumbering_UpdateSettingUnknownKey(t *testing.T) {
	repo := new(MockNumberSettingRepository)
	svc := services.NewNumberingService(repo, 6, "yyyy-MM")

	_, err := svc.UpdateSetting(context.Background(), "tenant-1", "sales.nope", "u", dto.UpdateNumberSettingRequest{})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "SaveSetting", mock.Anything, mock.Anything)
}

func TestNumbering_UpdateSettingCreatesFromDefaults(t *testing.T) {
	repo := new(MockNumberSettingRepository)
	svc := services.NewNumberingService(repo, 6, "yyyy-MM")
	prefix, include := " RCPT ", false
	repo.On("FindSetting", mock.Anything, "tenant-1", "sales.order").Return(nil, apperrors.ErrNotFound).Once()
	repo.On("SaveSetting", mock.Anything, mock.MatchedBy(func(s domain.NumberSetting) bool {
		return s.Prefix == "RCPT" && !s.IncludePeriod && s.PaddingLength == 6 && s.CreatedBy == "u"
	})).Return(nil).Once()

	setting, err := svc.UpdateSetting(context.Background(), "tenant-1", "sales.order", "u", dto.UpdateNumberSettingRequest{Prefix: &prefix, IncludePeriod: &include})

	require.NoError(t, err)
	assert.Equal(t, "RCPT", setting.Prefix)
	repo.AssertExpectations(t)
}

func TestOutbox_ClaimDoneAndFail(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOutboxRepository)
	svc := services.NewOutboxService(repo)

	event := &domain.OutboxEvent{EventID: "ev-1", TenantID: "tenant-1", EventKey: "sales.invoice.posted", Status: domain.OutboxPending, Attempts: 1}
	repo.On("FindEvent", mock.Anything, "tenant-1", "ev-1").Return(event, nil)
	repo.On("UpdateEvent", mock.Anything, mock.Anything).Return(nil)

	claimed, err := svc.MarkProcessing(ctx, "tenant-1", "ev-1", "dispatcher")
	require.NoError(t, err)
	assert.Equal(t, domain.OutboxProcessing, claimed.Status)
	assert.Equal(t, 2, claimed.Attempts)

	_, err = svc.MarkProcessing(ctx, "tenant-1", "ev-1", "dispatcher")
	assert.ErrorIs(t, err, apperrors.ErrValidation, "an event in flight cannot be claimed twice")

	before := time.Now().UTC()
	failed, err := svc.MarkFailed(ctx, "tenant-1", "ev-1", "dispatcher", "webhook timeout")
	require.NoError(t, err)
	assert.Equal(t, domain.OutboxFailed, failed.Status)
	require.NotNil(t, failed.LastError)
	assert.Equal(t, "webhook timeout", *failed.LastError)
	require.NotNil(t, failed.NextAttemptAt)
	assert.True(t, failed.NextAttemptAt.After(before.Add(3*time.Minute)))

	done, err := svc.MarkDone(ctx, "tenant-1", "ev-1", "dispatcher")
	require.NoError(t, err)
	assert.Equal(t, domain.OutboxDone, done.Status)
	assert.NotNil(t, done.ProcessedAt)
	assert.Nil(t, done.NextAttemptAt)

	_, err = svc.MarkFailed(ctx, "tenant-1", "ev-1", "dispatcher", "late")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestOutbox_ListPendingClampsLimit(t *testing.T) {
	repo := new(MockOutboxRepository)
	svc := services.NewOutboxService(repo)
	repo.On("ListPending", mock.Anything, "tenant-1", mock.AnythingOfType("time.Time"), 200).Return(nil, nil).Once()

	events, err := svc.ListPending(context.Background(), "tenant-1", "u", 5000)

	require.NoError(t, err)
	assert.NotNil(t, events)
	repo.AssertExpectations(t)
}

func TestIntegrationToken_CreateAndValidate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockIntegrationTokenRepository)
	svc := services.NewIntegrationTokenService(repo)

	var stored domain.IntegrationToken
	repo.On("Create", mock.Anything, mock.AnythingOfType("domain.IntegrationToken")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(domain.IntegrationToken) }).
		Return(nil).Once()

	days := 30
	key, token, err := svc.CreateToken(ctx, "tenant-1", "admin", dto.CreateTokenRequest{Name: "POS terminal", ExpiresInDays: &days})
	require.NoError(t, err)
	require.NotNil(t, token.ExpiresAt)
	assert.True(t, strings.HasPrefix(key, "gde_"+token.TokenID+"_"))
	assert.NotContains(t, stored.TokenHash, strings.TrimPrefix(key, "gde_"+token.TokenID+"_"))

	repo.On("FindByID", mock.Anything, token.TokenID).Return(&stored, nil)
	repo.On("TouchLastUsed", mock.Anything, token.TokenID, mock.Anything).Return(nil).Once()

	validated, err := svc.ValidateToken(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", validated.TenantID)
	assert.NotNil(t, validated.LastUsedAt)

	_, err = svc.ValidateToken(ctx, key+"x")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestIntegrationToken_RejectsMalformedAndExpired(t *testing.T) {
	ctx := context.Background()
	repo := new(MockIntegrationTokenRepository)
	svc := services.NewIntegrationTokenService(repo)

	for _, raw := range []string{"", "Bearer abc", "gde_", "gde_onlyid", "gde__secret"} {
		_, err := svc.ValidateToken(ctx, raw)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized, raw)
	}

	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	key, token, err := svc.CreateToken(ctx, "tenant-1", "admin", dto.CreateTokenRequest{Name: "old"})
	require.NoError(t, err)
	expired := *token
	past := time.Now().Add(-time.Hour)
	expired.ExpiresAt = &past
	repo.On("FindByID", mock.Anything, token.TokenID).Return(&expired, nil).Once()

	_, err = svc.ValidateToken(ctx, key)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	repo.AssertNotCalled(t, "TouchLastUsed", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachments_LockedAndVisible(t *testing.T) {
	ctx := context.Background()
	docRepo := new(MockDocumentRepository)
	locks := new(MockLockChecker)
	repo := new(MockAttachmentRepository)
	documents := services.NewDocumentService(docRepo)
	svc := services.NewAttachmentService(repo, documents, locks)
	filter := domain.AccessFilter{UserID: "u", RoleIDs: []string{}}
	doc := &domain.Document{DocumentID: "doc-1", TenantID: "tenant-1", Status: domain.StatusDraft}
	req := dto.AddAttachmentRequest{FileName: "receipt.pdf", MimeType: "application/pdf", SizeBytes: 1024, StorageKey: "s3://bucket/receipt.pdf"}

	// Invisible document
	docRepo.On("FindDocumentByID", mock.Anything, "tenant-1", "doc-hidden", filter).Return(nil, apperrors.NewNotFoundError("document", "doc-hidden")).Once()
	_, err := svc.AddAttachment(ctx, "tenant-1", "doc-hidden", "u", req)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Posted document
	docRepo.On("FindDocumentByID", mock.Anything, "tenant-1", "doc-1", filter).Return(doc, nil)
	posted := domain.StatusPosted
	locks.On("GetDocumentStatus", mock.Anything, "tenant-1", "doc-1").Return(&posted, nil).Once()
	_, err = svc.AddAttachment(ctx, "tenant-1", "doc-1", "u", req)
	assert.ErrorIs(t, err, apperrors.ErrLocked)

	// Draft document
	draft := domain.StatusDraft
	locks.On("GetDocumentStatus", mock.Anything, "tenant-1", "doc-1").Return(&draft, nil).Once()
	repo.On("SaveAttachment", mock.Anything, mock.AnythingOfType("domain.Attachment")).Return(nil).Once()
	att, err := svc.AddAttachment(ctx, "tenant-1", "doc-1", "u", req)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", att.DocumentID)

	// Attachment of another document
	locks.On("GetDocumentStatus", mock.Anything, "tenant-1", "doc-1").Return(&draft, nil).Once()
	repo.On("FindAttachment", mock.Anything, "tenant-1", "att-x").Return(&domain.Attachment{AttachmentID: "att-x", DocumentID: "doc-2"}, nil).Once()
	err = svc.RemoveAttachment(ctx, "tenant-1", "doc-1", "att-x", "u")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "SoftDeleteAttachment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
