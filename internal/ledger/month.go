package ledger

import (
	"errors"

	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

// CreateMonth materializes all active templates into a new month document.
// The previous month's savings end balances are carried forward as start
// balances. Creating an existing month fails.
func (s *Service) CreateMonth(month types.Month) (models.MonthLedger, error) {
	if month.IsZero() {
		return models.MonthLedger{}, models.ErrMonthInvalid
	}

	if s.store.Exists(monthKey(month)) {
		return models.MonthLedger{}, models.ErrMonthExists
	}

	ledger := models.NewMonthLedger(month)

	if err := s.generateInstances(&ledger); err != nil {
		return models.MonthLedger{}, err
	}

	if err := s.carryForwardSavings(&ledger); err != nil {
		return models.MonthLedger{}, err
	}

	if err := s.provisionManualPayoffs(&ledger); err != nil {
		return models.MonthLedger{}, err
	}

	if err := s.save(&ledger); err != nil {
		return models.MonthLedger{}, err
	}

	s.log.Info().Str("month", month.String()).
		Int("bills", len(ledger.BillInstances)).
		Int("incomes", len(ledger.IncomeInstances)).
		Msg("month created")

	return s.Month(month)
}

// Month returns the month view: the persisted document with claim-derived
// virtual entries projected in. The projection is never persisted.
func (s *Service) Month(month types.Month) (models.MonthLedger, error) {
	ledger, err := s.load(month)
	if err != nil {
		return models.MonthLedger{}, err
	}

	if err := s.projectClaims(&ledger); err != nil {
		return models.MonthLedger{}, err
	}

	return ledger, nil
}

// Months lists all stored months, sorted.
func (s *Service) Months() ([]types.Month, error) {
	keys, err := s.store.List("months")
	if err != nil {
		return nil, err
	}

	months := make([]types.Month, 0, len(keys))
	for _, key := range keys {
		month, err := types.ParseMonth(key[len("months/"):])
		if err != nil {
			s.log.Warn().Str("key", key).Msg("skipping month document with unparseable key")
			continue
		}
		months = append(months, month)
	}

	return months, nil
}

// DeleteMonth removes a month document. Read-only months cannot be
// deleted.
func (s *Service) DeleteMonth(month types.Month) error {
	ledger, err := s.load(month)
	if err != nil {
		return err
	}

	if ledger.ReadOnly {
		return models.ErrMonthReadOnly
	}

	return s.store.Delete(monthKey(month))
}

// SetReadOnly toggles the read-only flag. Unlocking a read-only month is
// the one mutation allowed on it.
func (s *Service) SetReadOnly(month types.Month, readOnly bool) (models.MonthLedger, error) {
	ledger, err := s.load(month)
	if err != nil {
		return models.MonthLedger{}, err
	}

	ledger.ReadOnly = readOnly
	if err := s.save(&ledger); err != nil {
		return models.MonthLedger{}, err
	}

	return ledger, nil
}

// SyncMonth adds instances for active templates that have none in the
// month yet. Existing instances are never touched, so calling sync twice
// changes nothing the second time.
func (s *Service) SyncMonth(month types.Month) (models.MonthLedger, error) {
	ledger, err := s.mutate(month, func(ledger *models.MonthLedger) error {
		added, err := s.syncInstances(ledger)
		if err != nil {
			return err
		}

		if added > 0 {
			s.log.Info().Str("month", month.String()).Int("added", added).Msg("month synced")
		}
		return nil
	})
	if err != nil {
		return models.MonthLedger{}, err
	}

	if err := s.projectClaims(&ledger); err != nil {
		return models.MonthLedger{}, err
	}

	return ledger, nil
}

// SyncMetadata refreshes the denormalized template metadata snapshots of
// all template-linked instances without touching amounts or payments.
func (s *Service) SyncMetadata(month types.Month) (models.MonthLedger, error) {
	return s.mutate(month, func(ledger *models.MonthLedger) error {
		bills, err := s.registry.Bills()
		if err != nil {
			return err
		}
		incomes, err := s.registry.Incomes()
		if err != nil {
			return err
		}

		templates := make(map[uuid.UUID]models.Template, len(bills)+len(incomes))
		for _, b := range bills {
			templates[b.ID] = b.Template
		}
		for _, i := range incomes {
			templates[i.ID] = i.Template
		}

		refresh := func(list []models.Instance) {
			for idx := range list {
				if list[idx].TemplateID == nil {
					continue
				}
				t, ok := templates[*list[idx].TemplateID]
				if !ok {
					continue
				}
				list[idx].Metadata = t.Metadata()
				list[idx].Touch()
			}
		}

		refresh(ledger.BillInstances)
		refresh(ledger.IncomeInstances)
		return nil
	})
}

// SetBankBalance records the balance snapshot of one payment source for
// the month. Entering a balance for a pay-off-monthly source provisions
// its payoff bill.
func (s *Service) SetBankBalance(month types.Month, sourceID uuid.UUID, balance models.Amount) (models.MonthLedger, error) {
	return s.mutate(month, func(ledger *models.MonthLedger) error {
		source, err := s.registry.PaymentSource(sourceID)
		if err != nil {
			return err
		}

		ledger.BankBalances[sourceID] = balance

		if source.PayOffMonthly && !source.TrackPaymentsManually {
			return s.provisionPayoff(ledger, source, balance)
		}
		return nil
	})
}

// SetSavings records the savings balances of one source for the month.
func (s *Service) SetSavings(month types.Month, sourceID uuid.UUID, savings models.SavingsBalance) (models.MonthLedger, error) {
	return s.mutate(month, func(ledger *models.MonthLedger) error {
		if _, err := s.registry.PaymentSource(sourceID); err != nil {
			return err
		}

		if ledger.Savings == nil {
			ledger.Savings = make(map[uuid.UUID]models.SavingsBalance)
		}
		ledger.Savings[sourceID] = savings
		return nil
	})
}

// generateInstances fills a fresh month with instances from all active
// templates.
func (s *Service) generateInstances(ledger *models.MonthLedger) error {
	bills, err := s.registry.ActiveBills()
	if err != nil {
		return err
	}
	for _, bill := range bills {
		instance := instanceFromTemplate(bill.Template, ledger.Month)
		if len(instance.Occurrences) == 0 {
			continue
		}
		ledger.BillInstances = append(ledger.BillInstances, instance)
	}

	incomes, err := s.registry.ActiveIncomes()
	if err != nil {
		return err
	}
	for _, income := range incomes {
		instance := instanceFromTemplate(income.Template, ledger.Month)
		if len(instance.Occurrences) == 0 {
			continue
		}
		ledger.IncomeInstances = append(ledger.IncomeInstances, instance)
	}

	return nil
}

// syncInstances adds missing template-derived instances and returns how
// many were added.
func (s *Service) syncInstances(ledger *models.MonthLedger) (int, error) {
	added := 0

	bills, err := s.registry.ActiveBills()
	if err != nil {
		return 0, err
	}
	for _, bill := range bills {
		if ledger.InstanceForTemplate(models.KindBill, bill.ID) != nil {
			continue
		}
		instance := instanceFromTemplate(bill.Template, ledger.Month)
		if len(instance.Occurrences) == 0 {
			continue
		}
		ledger.BillInstances = append(ledger.BillInstances, instance)
		added++
	}

	incomes, err := s.registry.ActiveIncomes()
	if err != nil {
		return 0, err
	}
	for _, income := range incomes {
		if ledger.InstanceForTemplate(models.KindIncome, income.ID) != nil {
			continue
		}
		instance := instanceFromTemplate(income.Template, ledger.Month)
		if len(instance.Occurrences) == 0 {
			continue
		}
		ledger.IncomeInstances = append(ledger.IncomeInstances, instance)
		added++
	}

	if err := s.provisionManualPayoffs(ledger); err != nil {
		return added, err
	}

	return added, nil
}

// carryForwardSavings seeds the new month's savings start balances from
// the previous month's end balances.
func (s *Service) carryForwardSavings(ledger *models.MonthLedger) error {
	previous, err := s.load(ledger.Month.AddDate(0, -1))
	if errors.Is(err, models.ErrMonthNotFound) {
		// The very first month has nothing to carry forward.
		return nil
	}
	if err != nil {
		return err
	}

	if len(previous.Savings) == 0 {
		return nil
	}

	ledger.Savings = make(map[uuid.UUID]models.SavingsBalance, len(previous.Savings))
	for sourceID, savings := range previous.Savings {
		ledger.Savings[sourceID] = models.SavingsBalance{
			Start: savings.End,
			End:   savings.End,
		}
	}

	return nil
}
