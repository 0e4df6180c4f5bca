package models

import (
	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/types"
)

// Occurrence is one dated, amount-bearing expected cash event within an
// instance. A monthly bill has one, a bi-weekly paycheck two or three.
type Occurrence struct {
	ID              uuid.UUID  `json:"id"`
	Sequence        int        `json:"sequence" example:"1"` // Dense, date-ordered within the instance
	Date            types.Date `json:"date" example:"2025-08-14"`
	Amount          Amount     `json:"amount" example:"134.50"`
	Closed          bool       `json:"closed" example:"false"`
	ClosedDate      *types.Date `json:"closedDate,omitempty"`
	PaymentSourceID *uuid.UUID `json:"paymentSourceId,omitempty"` // Override of the instance's payment source
	Notes           string     `json:"notes,omitempty"`
	Adhoc           bool       `json:"adhoc" example:"false"` // Not generated from a template
	Timestamps
}

// NewOccurrence returns an open occurrence with a fresh ID.
func NewOccurrence(date types.Date, amount Amount) Occurrence {
	o := Occurrence{
		ID:     uuid.New(),
		Date:   date,
		Amount: amount,
	}
	o.Touch()
	o.CreatedAt = o.UpdatedAt

	return o
}

// NewAdhocOccurrence returns an open occurrence with the ad-hoc flag set.
func NewAdhocOccurrence(date types.Date, amount Amount) Occurrence {
	o := NewOccurrence(date, amount)
	o.Adhoc = true

	return o
}

// Close marks the occurrence as closed on the given date.
func (o *Occurrence) Close(date types.Date) {
	o.Closed = true
	o.ClosedDate = &date
	o.Touch()
}

// Reopen clears the closed state.
func (o *Occurrence) Reopen() {
	o.Closed = false
	o.ClosedDate = nil
	o.Touch()
}
