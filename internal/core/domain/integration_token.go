package domain

import "time"

// IntegrationToken is a tenant-scoped API key used by external consumers of the lock-check.
type IntegrationToken struct {
	TokenID    string     `json:"tokenID"`
	TenantID   string     `json:"tenantID"`
	Name       string     `json:"name"`
	TokenHash  string     `json:"-"` // Never expose the hash in JSON responses
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	AuditFields
}

// IsExpired checks if the token has expired
func (t *IntegrationToken) IsExpired(now time.Time) bool {
	if t.ExpiresAt == nil {
		return false
	}
	return t.ExpiresAt.Before(now)
}
