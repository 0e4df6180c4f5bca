package models

import (
	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/homeledger/backend/internal/types"
)

// InstanceKind distinguishes the two instance lists of a month.
type InstanceKind string

const (
	KindBill   InstanceKind = "bill"
	KindIncome InstanceKind = "income"
)

// Valid reports whether the kind is a known instance kind.
func (k InstanceKind) Valid() bool {
	return k == KindBill || k == KindIncome
}

// InstanceSource marks where an instance came from. Instances derived from
// insurance claims are virtual: they are projected into the month view at
// read time and must never be persisted.
type InstanceSource string

const SourceInsurance InstanceSource = "insurance"

// InstanceMetadata is the point-in-time copy of template metadata an
// instance keeps, so that the month stays meaningful after template edits.
// SyncMetadata refreshes it without touching amounts or payments.
type InstanceMetadata struct {
	Name            string    `json:"name" example:"Electric"`
	CategoryID      uuid.UUID `json:"categoryId"`
	PaymentSourceID uuid.UUID `json:"paymentSourceId"`
}

// PayoffInfo links a payoff bill instance to the revolving-debt payment
// source it tracks. Balance is the remaining balance, negative while debt
// remains.
type PayoffInfo struct {
	SourceID uuid.UUID `json:"sourceId"`
	Manual   bool      `json:"manual" example:"false"` // Payments are entered by hand, the instance may have no occurrences yet
	Balance  Amount    `json:"balance" example:"-250.00"`
}

// Instance is the per-month materialization of one template, or one ad-hoc
// or payoff item. ExpectedAmount, Closed and ClosedDate are derived from
// the occurrence list and recomputed on every mutation.
type Instance struct {
	ID               uuid.UUID        `json:"id"`
	TemplateID       *uuid.UUID       `json:"templateId,omitempty"` // nil for ad-hoc and payoff instances
	Month            types.Month      `json:"month" example:"2025-08"`
	BillingPeriod    BillingPeriod    `json:"billingPeriod" example:"monthly"`
	ExpectedAmount   Amount           `json:"expectedAmount" example:"134.50"` // Sum of occurrence amounts
	Occurrences      []Occurrence     `json:"occurrences"`
	Closed           bool             `json:"closed" example:"false"` // All occurrences closed
	ClosedDate       *types.Date      `json:"closedDate,omitempty"`
	Adhoc            bool             `json:"adhoc" example:"false"`
	ExtraOccurrences bool             `json:"extraOccurrences,omitempty"` // Month carries more occurrences than usual for the period
	Payoff           *PayoffInfo      `json:"payoff,omitempty"`
	Source           InstanceSource   `json:"source,omitempty"` // Set for virtual instances only
	Metadata         InstanceMetadata `json:"metadata"`
	Timestamps
}

// NewInstance returns an instance shell with a fresh ID and timestamps.
func NewInstance(month types.Month) Instance {
	i := Instance{
		ID:    uuid.New(),
		Month: month,
	}
	i.Touch()
	i.CreatedAt = i.UpdatedAt

	return i
}

// IsVirtual reports whether the instance was projected from a claim.
func (i Instance) IsVirtual() bool {
	return i.Source == SourceInsurance
}

// IsPayoff reports whether the instance tracks a revolving-debt source.
func (i Instance) IsPayoff() bool {
	return i.Payoff != nil
}

// Occurrence returns a pointer to the occurrence with the given ID, or nil.
func (i *Instance) Occurrence(id uuid.UUID) *Occurrence {
	for idx := range i.Occurrences {
		if i.Occurrences[idx].ID == id {
			return &i.Occurrences[idx]
		}
	}

	return nil
}

// OpenOccurrence returns a pointer to the first open occurrence, or nil.
// Payoff instances maintain at most one open occurrence at a time.
func (i *Instance) OpenOccurrence() *Occurrence {
	for idx := range i.Occurrences {
		if !i.Occurrences[idx].Closed {
			return &i.Occurrences[idx]
		}
	}

	return nil
}

// Resequence sorts occurrences by date, stable for ties, and renumbers
// them densely starting at 1. Mandatory after every insert, removal or
// split.
func (i *Instance) Resequence() {
	slices.SortStableFunc(i.Occurrences, func(a, b Occurrence) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return 0
	})

	for idx := range i.Occurrences {
		i.Occurrences[idx].Sequence = idx + 1
	}
}

// Recompute refreshes the derived fields from the occurrence list:
// ExpectedAmount, Closed and ClosedDate. An instance without occurrences
// is never considered closed, so a manually tracked payoff bill stays open
// until a payment closes it.
func (i *Instance) Recompute() {
	var sum Amount
	closed := len(i.Occurrences) > 0
	var closedDate types.Date

	for _, o := range i.Occurrences {
		sum += o.Amount
		if !o.Closed {
			closed = false
			continue
		}
		if o.ClosedDate != nil && o.ClosedDate.After(closedDate) {
			closedDate = *o.ClosedDate
		}
	}

	i.ExpectedAmount = sum
	i.Closed = closed
	if closed && !closedDate.IsZero() {
		i.ClosedDate = &closedDate
	} else {
		i.ClosedDate = nil
	}
	i.Touch()
}

// OpenAmount returns the sum of amounts on open occurrences.
func (i Instance) OpenAmount() Amount {
	var sum Amount
	for _, o := range i.Occurrences {
		if !o.Closed {
			sum += o.Amount
		}
	}

	return sum
}
