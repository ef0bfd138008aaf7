package domain

import "time"

// validTransitions lists the allowed successors of each status.
var validTransitions = map[DocumentStatus][]DocumentStatus{
	StatusDraft:             {StatusSubmitted, StatusCancelled},
	StatusSubmitted:         {StatusApproved, StatusRejected, StatusRevisionRequested, StatusCancelled},
	StatusRevisionRequested: {StatusSubmitted, StatusDraft, StatusCancelled},
	StatusApproved:          {StatusPosted, StatusCancelled},
	StatusPosted:            {StatusCancelled},
	StatusRejected:          {},
	StatusCancelled:         {},
}

// CanTransition reports whether a document may move from one status to another.
func CanTransition(from, to DocumentStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the successors of a status.
func AllowedTransitions(from DocumentStatus) []DocumentStatus {
	next := validTransitions[from]
	out := make([]DocumentStatus, len(next))
	copy(out, next)
	return out
}

// StampTransition sets the lifecycle timestamp belonging to the target status.
// Timestamps are history: a later transition never clears an earlier stamp.
func (d *Document) StampTransition(to DocumentStatus, at time.Time) {
	t := at
	switch to {
	case StatusSubmitted:
		d.SubmittedAt = &t
	case StatusApproved:
		d.ApprovedAt = &t
	case StatusPosted:
		d.PostedAt = &t
		if d.PostingDate == nil {
			d.PostingDate = &t
		}
	case StatusCancelled:
		d.CancelledAt = &t
	case StatusRejected:
		d.RejectedAt = &t
	case StatusRevisionRequested:
		d.RevisionRequestedAt = &t
	}
}

// StatusHistory records one lifecycle transition.
type StatusHistory struct {
	HistoryID  string         `json:"historyID"`
	DocumentID string         `json:"documentID"`
	FromStatus DocumentStatus `json:"fromStatus"`
	ToStatus   DocumentStatus `json:"toStatus"`
	ChangedBy  string         `json:"changedBy"`
	Reason     *string        `json:"reason,omitempty"`
	ChangedAt  time.Time      `json:"changedAt"`
}

// ApprovalStatus is the decision state of one approval step.
type ApprovalStatus string

const (
	ApprovalPending           ApprovalStatus = "PENDING"
	ApprovalApproved          ApprovalStatus = "APPROVED"
	ApprovalRejected          ApprovalStatus = "REJECTED"
	ApprovalRevisionRequested ApprovalStatus = "REVISION_REQUESTED"
)

// DocumentApproval is one step of the approval chain created on submission.
type DocumentApproval struct {
	ApprovalID  string         `json:"approvalID"`
	DocumentID  string         `json:"documentID"`
	StepIndex   int            `json:"stepIndex"`
	Status      ApprovalStatus `json:"status"`
	RequestedBy string         `json:"requestedBy"`
	DecidedBy   *string        `json:"decidedBy,omitempty"`
	DecidedAt   *time.Time     `json:"decidedAt,omitempty"`
	Notes       *string        `json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// NextPendingApproval returns the lowest pending step, or nil when none is pending.
func NextPendingApproval(approvals []DocumentApproval) *DocumentApproval {
	var next *DocumentApproval
	for i := range approvals {
		a := &approvals[i]
		if a.Status != ApprovalPending {
			continue
		}
		if next == nil || a.StepIndex < next.StepIndex {
			next = a
		}
	}
	return next
}

// CountPending returns the number of pending approval steps.
func CountPending(approvals []DocumentApproval) int {
	n := 0
	for _, a := range approvals {
		if a.Status == ApprovalPending {
			n++
		}
	}
	return n
}
