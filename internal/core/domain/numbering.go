package domain

import (
	"fmt"
	"strings"
	"time"
)

// NumberSetting controls how document numbers are generated for one (tenant, document key).
type NumberSetting struct {
	TenantID       string  `json:"tenantID"`
	DocumentKey    string  `json:"documentKey"`
	Prefix         string  `json:"prefix"`
	PaddingLength  int     `json:"paddingLength"`
	IncludePeriod  bool    `json:"includePeriod"`
	PeriodFormat   string  `json:"periodFormat"` // yyyy-MM, yyyyMM or yyyy
	CurrentCounter int64   `json:"currentCounter"`
	LastPeriod     *string `json:"lastPeriod,omitempty"`
	AuditFields
}

const (
	DefaultNumberPadding      = 6
	DefaultNumberPeriodFormat = "yyyy-MM"
)

// NewNumberSetting builds the default setting for a document key.
func NewNumberSetting(tenantID, documentKey string, padding int, periodFormat string) NumberSetting {
	prefix := strings.ToUpper(documentKey)
	if t, ok := LookupDocumentType(documentKey); ok {
		prefix = t.NumberPrefix
	}
	if padding <= 0 {
		padding = DefaultNumberPadding
	}
	if periodFormat == "" {
		periodFormat = DefaultNumberPeriodFormat
	}
	return NumberSetting{
		TenantID:      tenantID,
		DocumentKey:   documentKey,
		Prefix:        prefix,
		PaddingLength: padding,
		IncludePeriod: true,
		PeriodFormat:  periodFormat,
	}
}

// FormatPeriod renders the period part of a number for the given instant.
func FormatPeriod(format string, at time.Time) string {
	switch format {
	case "yyyyMM":
		return at.Format("200601")
	case "yyyy":
		return at.Format("2006")
	default:
		return at.Format("2006-01")
	}
}

// Advance increments the counter, resetting it when the period changed, and returns the formatted number.
func (s *NumberSetting) Advance(at time.Time) string {
	period := FormatPeriod(s.PeriodFormat, at)
	if s.IncludePeriod && (s.LastPeriod == nil || *s.LastPeriod != period) {
		s.CurrentCounter = 0
	}
	s.CurrentCounter++
	p := period
	s.LastPeriod = &p

	parts := []string{}
	if s.Prefix != "" {
		parts = append(parts, s.Prefix)
	}
	if s.IncludePeriod {
		parts = append(parts, period)
	}
	parts = append(parts, fmt.Sprintf("%0*d", s.PaddingLength, s.CurrentCounter))
	return strings.Join(parts, "-")
}
