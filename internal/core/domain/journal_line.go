package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MetadataJournalLines is the metadata key holding manual lines of an ACCOUNTING document.
const MetadataJournalLines = "journalLines"

// ManualJournalLine is one hand-entered posting of a journal entry.
type ManualJournalLine struct {
	AccountID    string          `json:"accountID"`
	Description  *string         `json:"description,omitempty"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
}

// JournalLinesFromMetadata decodes the manual journal lines carried in document metadata.
func JournalLinesFromMetadata(metadata map[string]any) ([]ManualJournalLine, error) {
	raw, ok := metadata[MetadataJournalLines]
	if !ok || raw == nil {
		return nil, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode journal lines: %w", err)
	}
	var lines []ManualJournalLine
	if err := json.Unmarshal(b, &lines); err != nil {
		return nil, fmt.Errorf("decode journal lines: %w", err)
	}
	return lines, nil
}
