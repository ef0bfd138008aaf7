package domain

import (
	"strings"
	"time"
)

// ResourceTypeDocument is the resource type whose tag links are subject to the document lock.
const ResourceTypeDocument = "document"

// Tag is a tenant-scoped label.
type Tag struct {
	TagID          string     `json:"tagID"`
	TenantID       string     `json:"tenantID"`
	Name           string     `json:"name"`
	NameNormalized string     `json:"nameNormalized"` // Unique per tenant
	UsageCount     int        `json:"usageCount"`
	LastUsedAt     *time.Time `json:"lastUsedAt,omitempty"`
	IsActive       bool       `json:"isActive"`
	AuditFields
}

// TagLink attaches a tag to a resource.
type TagLink struct {
	TagID        string    `json:"tagID"`
	TenantID     string    `json:"tenantID"`
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceID"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"`
}

// NormalizeTagName trims and lowercases a tag name.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
