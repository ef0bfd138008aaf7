package domain

import "time"

// OutboxStatus is the delivery state of an outbox event.
type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "PENDING"
	OutboxProcessing OutboxStatus = "PROCESSING"
	OutboxDone       OutboxStatus = "DONE"
	OutboxFailed     OutboxStatus = "FAILED"
)

// OutboxEvent is written in the same transaction as the state change it announces.
type OutboxEvent struct {
	EventID       string         `json:"eventID"`
	TenantID      string         `json:"tenantID"`
	DocumentID    string         `json:"documentID"`
	EventKey      string         `json:"eventKey"`     // e.g. sales.invoice.posted
	EventVersion  int            `json:"eventVersion"` // max+1 per (document, eventKey), assigned by the store
	Payload       map[string]any `json:"payload,omitempty"`
	Status        OutboxStatus   `json:"status"`
	Attempts      int            `json:"attempts"`
	LastError     *string        `json:"lastError,omitempty"`
	NextAttemptAt *time.Time     `json:"nextAttemptAt,omitempty"`
	ProcessedAt   *time.Time     `json:"processedAt,omitempty"`
	AuditFields
}

// Event name suffixes appended to the document key.
const (
	EventSuffixPosted    = "posted"
	EventSuffixCancelled = "cancelled"
)

// EventKeyFor builds the outbox key for a document lifecycle event.
func EventKeyFor(documentKey, suffix string) string {
	return documentKey + "." + suffix
}

// RetryBackoff is the delay before a failed event becomes eligible again: 2^attempts minutes.
func RetryBackoff(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 10 {
		attempts = 10
	}
	return time.Duration(1<<uint(attempts)) * time.Minute
}
