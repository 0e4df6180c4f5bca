package claims

import (
	"time"

	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

// SubmissionPatch carries the updatable fields of a submission. nil
// pointers leave the field untouched.
type SubmissionPatch struct {
	Status           *models.SubmissionStatus
	AmountClaimed    *models.Amount
	AmountReimbursed *models.Amount
	DateSubmitted    *types.Date
	DateResolved     *types.Date
	DocumentIDs      *[]uuid.UUID
}

// UpdateSubmission applies a patch to one submission. Moving a submission
// into a terminal status triggers the waterfall cascade: the next waiting
// submission is activated as a draft claiming whatever the earlier
// insurers left unreimbursed.
func (s *Service) UpdateSubmission(claimID, submissionID uuid.UUID, patch SubmissionPatch) (models.Claim, error) {
	var updated models.Claim
	err := s.mutate(func(doc *document) error {
		claim := findClaim(doc, claimID)
		if claim == nil {
			return models.ErrClaimNotFound
		}

		submission, idx := claim.Submission(submissionID)
		if submission == nil {
			return models.ErrSubmissionNotFound
		}

		wasTerminal := submission.Status.Terminal()

		if patch.Status != nil {
			if !patch.Status.Valid() {
				return models.ErrSubmissionStatus
			}
			submission.Status = *patch.Status
		}
		if patch.AmountClaimed != nil {
			if *patch.AmountClaimed < 0 {
				return models.ErrAmountInvalid
			}
			submission.AmountClaimed = *patch.AmountClaimed
		}
		if patch.AmountReimbursed != nil {
			if *patch.AmountReimbursed < 0 {
				return models.ErrAmountInvalid
			}
			submission.AmountReimbursed = patch.AmountReimbursed
		}
		if patch.DateSubmitted != nil {
			submission.DateSubmitted = patch.DateSubmitted
		}
		if patch.DateResolved != nil {
			submission.DateResolved = patch.DateResolved
		}
		if patch.DocumentIDs != nil {
			submission.DocumentIDs = *patch.DocumentIDs
		}

		if submission.Status.Terminal() {
			if submission.AmountReimbursed == nil {
				zero := models.Amount(0)
				submission.AmountReimbursed = &zero
			}
			if submission.DateResolved == nil {
				today := types.DateOf(time.Now())
				submission.DateResolved = &today
			}
		}
		submission.Touch()

		if !wasTerminal && submission.Status.Terminal() {
			cascade(claim, idx)
		}

		claim.Touch()
		updated = *claim
		return nil
	})
	if err != nil {
		return models.Claim{}, err
	}

	return updated, nil
}

// AddSubmission appends a submission for another plan to the end of the
// chain. It waits for the previous insurer unless every earlier
// submission is already resolved, in which case it starts as a draft
// claiming the remaining amount.
func (s *Service) AddSubmission(claimID, planID uuid.UUID) (models.Claim, error) {
	plan, err := s.registry.InsurancePlan(planID)
	if err != nil {
		return models.Claim{}, err
	}

	var updated models.Claim
	err = s.mutate(func(doc *document) error {
		claim := findClaim(doc, claimID)
		if claim == nil {
			return models.ErrClaimNotFound
		}
		if claim.IsExpected() {
			return models.ErrClaimConverted
		}

		submission := models.Submission{
			ID:     uuid.New(),
			PlanID: plan.ID,
			Plan:   plan.Snapshot(),
			Status: models.SubmissionAwaitingPrevious,
		}
		submission.Touch()
		submission.CreatedAt = submission.UpdatedAt

		allResolved := true
		for _, existing := range claim.Submissions {
			if !existing.Status.Terminal() {
				allResolved = false
				break
			}
		}
		if allResolved {
			submission.Status = models.SubmissionDraft
			submission.AmountClaimed = remainingAfter(claim, len(claim.Submissions))
		}

		claim.Submissions = append(claim.Submissions, submission)
		claim.Touch()
		updated = *claim
		return nil
	})
	if err != nil {
		return models.Claim{}, err
	}

	return updated, nil
}

// RemoveSubmission deletes an unresolved submission from the chain.
func (s *Service) RemoveSubmission(claimID, submissionID uuid.UUID) (models.Claim, error) {
	var updated models.Claim
	err := s.mutate(func(doc *document) error {
		claim := findClaim(doc, claimID)
		if claim == nil {
			return models.ErrClaimNotFound
		}

		submission, idx := claim.Submission(submissionID)
		if submission == nil {
			return models.ErrSubmissionNotFound
		}
		if submission.Status.Terminal() {
			return models.ErrSubmissionResolved
		}

		active := submission.Status != models.SubmissionAwaitingPrevious
		claim.Submissions = append(claim.Submissions[:idx], claim.Submissions[idx+1:]...)

		// Removing the active submission leaves the chain stalled, so
		// promote the next waiting one as if the removed one had
		// resolved with nothing reimbursed.
		if active {
			cascade(claim, idx-1)
		}

		claim.Touch()
		updated = *claim
		return nil
	})
	if err != nil {
		return models.Claim{}, err
	}

	return updated, nil
}

// cascade activates the first awaiting_previous submission after index
// idx. The activated submission becomes a draft claiming the claim total
// minus everything reimbursed by submissions before it, floored at zero.
func cascade(claim *models.Claim, idx int) {
	for next := idx + 1; next < len(claim.Submissions); next++ {
		if claim.Submissions[next].Status != models.SubmissionAwaitingPrevious {
			continue
		}

		claim.Submissions[next].Status = models.SubmissionDraft
		claim.Submissions[next].AmountClaimed = remainingAfter(claim, next)
		claim.Submissions[next].Touch()
		return
	}
}

// remainingAfter returns the claim total minus the reimbursements of all
// submissions before index idx, floored at zero.
func remainingAfter(claim *models.Claim, idx int) models.Amount {
	remaining := claim.TotalAmount
	for i := 0; i < idx && i < len(claim.Submissions); i++ {
		remaining -= claim.Submissions[i].Reimbursed()
	}

	if remaining < 0 {
		return 0
	}

	return remaining
}
