package dto

import (
	"time"

	"github.com/SscSPs/gym_document_engine/internal/core/domain"
)

// TagRequest names tags to assign, sync or remove on one resource.
type TagRequest struct {
	ResourceType string   `json:"resourceType" binding:"required"`
	ResourceID   string   `json:"resourceID" binding:"required"`
	Names        []string `json:"names" binding:"dive,required,max=64"`
}

// ListTagsParams defines query parameters for listing tags.
type ListTagsParams struct {
	Search string `form:"search"`
	Limit  int    `form:"limit,default=50"`
}

// AddAttachmentRequest records metadata of an uploaded file.
type AddAttachmentRequest struct {
	FileName   string `json:"fileName" binding:"required"`
	MimeType   string `json:"mimeType" binding:"required"`
	SizeBytes  int64  `json:"sizeBytes" binding:"gte=0"`
	StorageKey string `json:"storageKey" binding:"required"`
}

// UpdateNumberSettingRequest changes how numbers are generated for a document key.
type UpdateNumberSettingRequest struct {
	Prefix        *string `json:"prefix" binding:"omitempty,max=16"`
	PaddingLength *int    `json:"paddingLength" binding:"omitempty,min=1,max=12"`
	IncludePeriod *bool   `json:"includePeriod"`
	PeriodFormat  *string `json:"periodFormat" binding:"omitempty,oneof=yyyy-MM yyyyMM yyyy"`
}

// ListPendingParams defines query parameters for polling the outbox.
type ListPendingParams struct {
	Limit int `form:"limit,default=50"`
}

// MarkFailedRequest records a delivery failure.
type MarkFailedRequest struct {
	Error string `json:"error" binding:"required"`
}

// CreateTokenRequest defines the data needed to issue an integration key.
type CreateTokenRequest struct {
	Name          string `json:"name" binding:"required"`
	ExpiresInDays *int   `json:"expiresInDays" binding:"omitempty,min=1"`
}

// TokenResponse defines the data returned for an integration token.
type TokenResponse struct {
	TokenID    string     `json:"tokenID"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CreateTokenResponse carries the plaintext key. It is only ever returned once.
type CreateTokenResponse struct {
	Token string        `json:"token"`
	Info  TokenResponse `json:"info"`
}

// ToTokenResponse converts a domain.IntegrationToken to TokenResponse DTO.
func ToTokenResponse(t *domain.IntegrationToken) TokenResponse {
	return TokenResponse{
		TokenID:    t.TokenID,
		Name:       t.Name,
		LastUsedAt: t.LastUsedAt,
		ExpiresAt:  t.ExpiresAt,
		CreatedAt:  t.CreatedAt,
	}
}

// ToListTokenResponse converts a slice of tokens.
func ToListTokenResponse(tokens []domain.IntegrationToken) []TokenResponse {
	res := make([]TokenResponse, len(tokens))
	for i := range tokens {
		res[i] = ToTokenResponse(&tokens[i])
	}
	return res
}
