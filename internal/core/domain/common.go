package domain

import "time"

// AuditFields holds standard audit information shared by every engine entity.
// Rows are soft-deleted through DeletedAt/DeletedBy, never removed.
type AuditFields struct {
	CreatedAt     time.Time  `json:"createdAt"`
	CreatedBy     string     `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time  `json:"lastUpdatedAt"`
	LastUpdatedBy string     `json:"lastUpdatedBy"` // UserID Reference
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
	DeletedBy     *string    `json:"deletedBy,omitempty"`
}

// Auditable is implemented by every entity embedding AuditFields.
type Auditable interface {
	Audit() *AuditFields
}

// Audit returns the embedded audit record.
func (a *AuditFields) Audit() *AuditFields {
	return a
}

// NewAuditFields stamps creation and update fields with the same actor and time.
func NewAuditFields(userID string, at time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     at,
		CreatedBy:     userID,
		LastUpdatedAt: at,
		LastUpdatedBy: userID,
	}
}

// Touch records a modification.
func (a *AuditFields) Touch(userID string, at time.Time) {
	a.LastUpdatedAt = at
	a.LastUpdatedBy = userID
}

// IsDeleted reports whether the record has been soft-deleted.
func (a *AuditFields) IsDeleted() bool {
	return a.DeletedAt != nil
}
