package ledger

import (
	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

// Claim-derived entries are projected into the month view at read time,
// marked with the insurance source, and discarded at the write boundary.
// Deterministic IDs keep them stable across repeated reads.

func virtualID(claimID uuid.UUID, suffix string) uuid.UUID {
	return uuid.NewSHA1(claimID, []byte(suffix))
}

// projectClaims merges virtual bill and income instances for all claims
// whose service date falls in the ledger's month.
func (s *Service) projectClaims(ledger *models.MonthLedger) error {
	if s.claims == nil {
		return nil
	}

	claims, err := s.claims.ClaimsForMonth(ledger.Month)
	if err != nil {
		return err
	}

	for _, claim := range claims {
		if claim.IsExpected() {
			s.projectExpectedClaim(ledger, claim)
			continue
		}
		s.projectActualClaim(ledger, claim)
	}

	return nil
}

// projectExpectedClaim turns an expected expense into one virtual bill
// for its estimated cost and, with a positive reimbursement estimate, one
// virtual income.
func (s *Service) projectExpectedClaim(ledger *models.MonthLedger, claim models.Claim) {
	if claim.Expected == nil {
		return
	}

	date := claim.ServiceDate
	if claim.Expected.AppointmentDate != nil {
		date = *claim.Expected.AppointmentDate
	}

	if claim.Expected.Cost > 0 {
		bill := s.virtualInstance(ledger.Month, claim, "expected-bill")
		o := models.NewOccurrence(date, claim.Expected.Cost)
		o.ID = virtualID(claim.ID, "expected-bill-occurrence")
		if claim.Expected.PaymentSourceID != nil {
			o.PaymentSourceID = claim.Expected.PaymentSourceID
		}
		bill.Occurrences = []models.Occurrence{o}
		bill.Resequence()
		bill.Recompute()
		ledger.BillInstances = append(ledger.BillInstances, bill)
	}

	if claim.Expected.Reimbursement > 0 {
		income := s.virtualInstance(ledger.Month, claim, "expected-income")
		o := models.NewOccurrence(date, claim.Expected.Reimbursement)
		o.ID = virtualID(claim.ID, "expected-income-occurrence")
		income.Occurrences = []models.Occurrence{o}
		income.Resequence()
		income.Recompute()
		ledger.IncomeInstances = append(ledger.IncomeInstances, income)
	}
}

// projectActualClaim turns an incurred claim into a virtual bill for its
// total amount and a virtual income reflecting the reimbursement state of
// its submission chain.
func (s *Service) projectActualClaim(ledger *models.MonthLedger, claim models.Claim) {
	bill := s.virtualInstance(ledger.Month, claim, "bill")
	o := models.NewOccurrence(claim.ServiceDate, claim.TotalAmount)
	o.ID = virtualID(claim.ID, "bill-occurrence")
	// The bill counts as handled once it is marked paid or an insurer is
	// working on the claim.
	if claim.BillPaid || claim.HasActiveSubmission() {
		closedDate := claim.ServiceDate
		if claim.BillPaidDate != nil {
			closedDate = *claim.BillPaidDate
		}
		o.Close(closedDate)
	}
	bill.Occurrences = []models.Occurrence{o}
	bill.Resequence()
	bill.Recompute()
	ledger.BillInstances = append(ledger.BillInstances, bill)

	occurrences := s.reimbursementOccurrences(claim)
	if len(occurrences) == 0 {
		return
	}

	income := s.virtualInstance(ledger.Month, claim, "income")
	income.Occurrences = occurrences
	income.Resequence()
	income.Recompute()
	ledger.IncomeInstances = append(ledger.IncomeInstances, income)
}

// reimbursementOccurrences mirrors the claim's submissions 1:1 once at
// least one submission has resolved, falling back to the reimbursement
// estimate while the whole chain is still in flight.
func (s *Service) reimbursementOccurrences(claim models.Claim) []models.Occurrence {
	if !claim.HasResolvedSubmission() && claim.Expected != nil && claim.Expected.Reimbursement > 0 {
		o := models.NewOccurrence(claim.ServiceDate, claim.Expected.Reimbursement)
		o.ID = virtualID(claim.ID, "income-estimate")
		return []models.Occurrence{o}
	}

	var occurrences []models.Occurrence
	for _, submission := range claim.Submissions {
		amount := submission.AmountClaimed
		if submission.Status.Terminal() {
			amount = submission.Reimbursed()
		}
		// A denial reimburses nothing and a waiting submission has no
		// amount yet, neither is income to show.
		if amount <= 0 {
			continue
		}

		date := claim.ServiceDate
		if submission.DateResolved != nil {
			date = *submission.DateResolved
		} else if submission.DateSubmitted != nil {
			date = *submission.DateSubmitted
		}

		o := models.NewOccurrence(date, amount)
		o.ID = virtualID(claim.ID, "income-"+submission.ID.String())
		if submission.Status.Terminal() {
			o.Close(date)
		}
		occurrences = append(occurrences, o)
	}

	return occurrences
}

// virtualInstance builds the shared shell of a claim projection.
func (s *Service) virtualInstance(month types.Month, claim models.Claim, suffix string) models.Instance {
	instance := models.NewInstance(month)
	instance.ID = virtualID(claim.ID, suffix)
	instance.Source = models.SourceInsurance
	instance.BillingPeriod = models.PeriodMonthly
	instance.Metadata = models.InstanceMetadata{
		Name:       claim.CategoryName + ": " + claim.FamilyMemberName,
		CategoryID: claim.CategoryID,
	}

	return instance
}
