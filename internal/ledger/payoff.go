package ledger

import (
	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

// Payoff bills track payments toward a revolving-debt payment source.
// Their balance sign convention is an invariant: debt is negative, a
// payment is a positive amount, and the remaining balance moves toward
// zero. A payoff instance has at most one open occurrence, the current
// remainder, at any time.

// provisionManualPayoffs creates empty payoff instances for all sources
// with manual payment tracking that have none in this month yet.
func (s *Service) provisionManualPayoffs(ledger *models.MonthLedger) error {
	sources, err := s.registry.PaymentSources()
	if err != nil {
		return err
	}

	for _, source := range sources {
		if !source.TrackPaymentsManually || source.Archived {
			continue
		}
		if ledger.PayoffInstance(source.ID) != nil {
			continue
		}

		instance, err := s.newPayoffInstance(ledger.Month, source, true)
		if err != nil {
			return err
		}
		ledger.BillInstances = append(ledger.BillInstances, instance)
	}

	return nil
}

// provisionPayoff creates or refreshes the payoff bill of a
// pay-off-monthly source after a balance was entered for it. A zero or
// positive balance means there is nothing to pay off.
func (s *Service) provisionPayoff(ledger *models.MonthLedger, source models.PaymentSource, balance models.Amount) error {
	if balance > 0 {
		return models.ErrPayoffBalanceSign
	}

	instance := ledger.PayoffInstance(source.ID)
	if instance == nil {
		if balance == 0 {
			return nil
		}

		fresh, err := s.newPayoffInstance(ledger.Month, source, false)
		if err != nil {
			return err
		}
		fresh.Payoff.Balance = balance
		fresh.Occurrences = []models.Occurrence{models.NewOccurrence(ledger.Month.Last(), -balance)}
		fresh.Resequence()
		fresh.Recompute()
		ledger.BillInstances = append(ledger.BillInstances, fresh)
		return nil
	}

	// Re-entering the balance before any payment resizes the open
	// remainder occurrence. After a payment the balance is tracked
	// through AddPayoffPayment instead, so an instance that already
	// carries a closed payment is left alone.
	open := instance.OpenOccurrence()
	if open != nil && len(instance.Occurrences) == 1 && instance.OpenAmount() == -instance.Payoff.Balance {
		instance.Payoff.Balance = balance
		open.Amount = -balance
		open.Touch()
		instance.Recompute()
	}

	return nil
}

// newPayoffInstance builds the payoff bill shell for a source. The payoff
// category is auto-provisioned on first use.
func (s *Service) newPayoffInstance(month types.Month, source models.PaymentSource, manual bool) (models.Instance, error) {
	category, err := s.registry.EnsureCategory(models.CategoryNamePayoff)
	if err != nil {
		return models.Instance{}, err
	}

	instance := models.NewInstance(month)
	instance.BillingPeriod = models.PeriodMonthly
	instance.Payoff = &models.PayoffInfo{
		SourceID: source.ID,
		Manual:   manual,
	}
	instance.Metadata = models.InstanceMetadata{
		Name:            source.Name + " payoff",
		CategoryID:      category.ID,
		PaymentSourceID: source.ID,
	}
	instance.Recompute()

	return instance, nil
}

// AddPayoffPayment records one payment toward a payoff bill: the current
// open remainder occurrence is overwritten with the payment amount and
// closed, then a new open occurrence is appended for whatever balance
// remains. With no remaining balance the instance closes instead.
//
// The new balance is taken from newBalance when supplied, otherwise
// computed as previous balance plus payment.
func (s *Service) AddPayoffPayment(month types.Month, instanceID uuid.UUID, payment models.Amount, date types.Date, newBalance *models.Amount) (models.MonthLedger, error) {
	return s.mutate(month, func(ledger *models.MonthLedger) error {
		instance := ledger.Instance(models.KindBill, instanceID)
		if instance == nil {
			return models.ErrInstanceNotFound
		}
		if !instance.IsPayoff() {
			return models.ErrInstanceNotPayoff
		}
		if payment <= 0 {
			return models.ErrAmountNotPositive
		}

		remaining := instance.Payoff.Balance + payment
		if newBalance != nil {
			remaining = *newBalance
		}
		if remaining > 0 {
			return models.ErrPayoffBalanceSign
		}

		open := instance.OpenOccurrence()
		if open == nil {
			// Manually tracked payoff bills start without occurrences;
			// the first payment creates its own closed occurrence.
			o := models.NewOccurrence(date, payment)
			o.Close(date)
			instance.Occurrences = append(instance.Occurrences, o)
		} else {
			open.Amount = payment
			open.Date = date
			open.Close(date)
		}

		instance.Payoff.Balance = remaining
		if remaining < 0 {
			instance.Occurrences = append(instance.Occurrences, models.NewOccurrence(ledger.Month.Last(), -remaining))
		}

		instance.Resequence()
		instance.Recompute()
		return nil
	})
}
