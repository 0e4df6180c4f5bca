package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/types"
)

// BillingPeriod determines how a template expands into occurrences
// within a month.
type BillingPeriod string

const (
	PeriodMonthly      BillingPeriod = "monthly"
	PeriodBiWeekly     BillingPeriod = "bi_weekly"
	PeriodWeekly       BillingPeriod = "weekly"
	PeriodSemiAnnually BillingPeriod = "semi_annually"
)

// Valid reports whether the billing period is one of the supported values.
func (p BillingPeriod) Valid() bool {
	switch p {
	case PeriodMonthly, PeriodBiWeekly, PeriodWeekly, PeriodSemiAnnually:
		return true
	}

	return false
}

// Anchor fixes the phase of a billing period.
//
// Monthly templates use either Day or Week+Weekday. Weekly, bi-weekly and
// semi-annual templates use StartDate, from which due dates are stepped.
type Anchor struct {
	Day       int           `json:"day,omitempty" example:"14"`              // Day of month, 1-31. Clamped to the last day of shorter months.
	Week      int           `json:"week,omitempty" example:"2"`              // Week of month, 1-5. 5 means the last matching weekday.
	Weekday   *time.Weekday `json:"weekday,omitempty" example:"5"`           // Day of week, 0 = Sunday
	StartDate *types.Date   `json:"startDate,omitempty" example:"2025-01-03"` // First due date for stepped periods
}

// Template is a recurring bill or income definition independent of any
// month. The ledger engine reads templates, it never modifies them.
type Template struct {
	DefaultModel
	Name            string        `json:"name" example:"Electric"`
	Amount          Amount        `json:"amount" example:"134.50"` // Per-period amount
	BillingPeriod   BillingPeriod `json:"billingPeriod" example:"monthly"`
	Anchor          Anchor        `json:"anchor"`
	CategoryID      uuid.UUID     `json:"categoryId"`
	PaymentSourceID uuid.UUID     `json:"paymentSourceId"`
	Active          bool          `json:"active" example:"true"`
	Notes           string        `json:"notes" example:""`
}

// Bill is an expense template.
type Bill struct {
	Template
}

// Income is an income template.
type Income struct {
	Template
}

// Validate checks the template fields and the anchor/period combination.
func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrNameRequired
	}

	if t.Amount <= 0 {
		return ErrAmountNotPositive
	}

	if !t.BillingPeriod.Valid() {
		return ErrBillingPeriodInvalid
	}

	switch t.BillingPeriod {
	case PeriodMonthly:
		byDay := t.Anchor.Day >= 1 && t.Anchor.Day <= 31 && t.Anchor.Week == 0 && t.Anchor.Weekday == nil
		byWeekday := t.Anchor.Day == 0 && t.Anchor.Week >= 1 && t.Anchor.Week <= 5 && t.Anchor.Weekday != nil
		if !byDay && !byWeekday {
			return ErrAnchorInvalid
		}
	default:
		if t.Anchor.StartDate == nil || t.Anchor.StartDate.IsZero() {
			return ErrAnchorInvalid
		}
	}

	return nil
}

// Metadata returns the point-in-time snapshot that instances carry.
func (t Template) Metadata() InstanceMetadata {
	return InstanceMetadata{
		Name:            t.Name,
		CategoryID:      t.CategoryID,
		PaymentSourceID: t.PaymentSourceID,
	}
}
