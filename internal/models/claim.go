package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/types"
)

// SubmissionStatus is the adjudication state of one insurance submission.
type SubmissionStatus string

const (
	SubmissionDraft            SubmissionStatus = "draft"
	SubmissionAwaitingPrevious SubmissionStatus = "awaiting_previous"
	SubmissionPending          SubmissionStatus = "pending"
	SubmissionApproved         SubmissionStatus = "approved"
	SubmissionDenied           SubmissionStatus = "denied"
)

// Valid reports whether the status is a known submission status.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionDraft, SubmissionAwaitingPrevious, SubmissionPending, SubmissionApproved, SubmissionDenied:
		return true
	}

	return false
}

// Terminal reports whether the submission has been resolved by the insurer.
func (s SubmissionStatus) Terminal() bool {
	return s == SubmissionApproved || s == SubmissionDenied
}

// ClaimStatus is derived from the submission list and never stored as an
// independently settable field.
type ClaimStatus string

const (
	ClaimDraft      ClaimStatus = "draft"
	ClaimInProgress ClaimStatus = "in_progress"
	ClaimClosed     ClaimStatus = "closed"
	ClaimExpected   ClaimStatus = "expected"
)

// Submission is one insurer's adjudication of a claim. The position in the
// claim's submission list encodes insurer priority: index 0 is the primary
// plan, index 1 the secondary, and so on.
type Submission struct {
	ID               uuid.UUID        `json:"id"`
	PlanID           uuid.UUID        `json:"planId"`
	Plan             PlanSnapshot     `json:"plan"`
	Status           SubmissionStatus `json:"status" example:"draft"`
	AmountClaimed    Amount           `json:"amountClaimed" example:"150.00"`
	AmountReimbursed *Amount          `json:"amountReimbursed,omitempty"` // nil until resolved
	DateSubmitted    *types.Date      `json:"dateSubmitted,omitempty"`
	DateResolved     *types.Date      `json:"dateResolved,omitempty"`
	DocumentIDs      []uuid.UUID      `json:"documentIds,omitempty"`
	Timestamps
}

// Reimbursed returns the reimbursed amount, zero while unresolved.
func (s Submission) Reimbursed() Amount {
	if s.AmountReimbursed == nil {
		return 0
	}

	return *s.AmountReimbursed
}

// Document is a receipt, EOB or other file attached to a claim.
type Document struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name" example:"EOB 2025-08-14.pdf"`
	Note    string    `json:"note,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

// ExpectedExpense carries the estimate fields of a claim that has not been
// incurred yet.
type ExpectedExpense struct {
	Cost            Amount      `json:"cost" example:"150.00"`
	Reimbursement   Amount      `json:"reimbursement" example:"120.00"`
	AppointmentDate *types.Date `json:"appointmentDate,omitempty"`
	PaymentSourceID *uuid.UUID  `json:"paymentSourceId,omitempty"`
}

// Claim is one insurance claim with its ordered submission chain.
type Claim struct {
	DefaultModel
	Number           int              `json:"number" example:"17"` // 0 while the claim is still expected
	FamilyMemberID   uuid.UUID        `json:"familyMemberId"`
	FamilyMemberName string           `json:"familyMemberName" example:"Alex"`
	CategoryID       uuid.UUID        `json:"categoryId"`
	CategoryName     string           `json:"categoryName" example:"Medical"`
	ServiceDate      types.Date       `json:"serviceDate" example:"2025-08-14"`
	TotalAmount      Amount           `json:"totalAmount" example:"150.00"`
	Submissions      []Submission     `json:"submissions"`
	Documents        []Document       `json:"documents,omitempty"`
	BillPaid         bool             `json:"billPaid" example:"false"`
	BillPaidDate     *types.Date      `json:"billPaidDate,omitempty"`
	Expected         *ExpectedExpense `json:"expected,omitempty"`
}

// IsExpected reports whether the claim has not been converted into an
// actual claim yet. Claim number 0 is reserved for expected claims.
func (c Claim) IsExpected() bool {
	return c.Number == 0
}

// Status derives the claim status from the submission chain.
//
// Submissions that are still draft or awaiting_previous have not been sent
// to any insurer, so a claim consisting only of those is itself draft. Once
// every submission is resolved the claim is closed; anything in between is
// in progress.
func (c Claim) Status() ClaimStatus {
	if c.IsExpected() {
		return ClaimExpected
	}

	if len(c.Submissions) == 0 {
		return ClaimDraft
	}

	allIdle := true
	allTerminal := true
	for _, s := range c.Submissions {
		if s.Status != SubmissionDraft && s.Status != SubmissionAwaitingPrevious {
			allIdle = false
		}
		if !s.Status.Terminal() {
			allTerminal = false
		}
	}

	if allIdle {
		return ClaimDraft
	}
	if allTerminal {
		return ClaimClosed
	}

	return ClaimInProgress
}

// Submission returns a pointer to the submission with the given ID and its
// index, or nil and -1.
func (c *Claim) Submission(id uuid.UUID) (*Submission, int) {
	for idx := range c.Submissions {
		if c.Submissions[idx].ID == id {
			return &c.Submissions[idx], idx
		}
	}

	return nil, -1
}

// TotalReimbursed sums the reimbursed amounts over all submissions.
func (c Claim) TotalReimbursed() Amount {
	var sum Amount
	for _, s := range c.Submissions {
		sum += s.Reimbursed()
	}

	return sum
}

// HasResolvedSubmission reports whether at least one submission reached a
// terminal state.
func (c Claim) HasResolvedSubmission() bool {
	for _, s := range c.Submissions {
		if s.Status.Terminal() {
			return true
		}
	}

	return false
}

// HasActiveSubmission reports whether any submission has been sent out or
// resolved, which marks the claim's bill as being handled.
func (c Claim) HasActiveSubmission() bool {
	for _, s := range c.Submissions {
		if s.Status == SubmissionPending || s.Status.Terminal() {
			return true
		}
	}

	return false
}
