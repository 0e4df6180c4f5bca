package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

// OccurrenceRef addresses one occurrence inside a month.
type OccurrenceRef struct {
	Month        types.Month
	Kind         models.InstanceKind
	InstanceID   uuid.UUID
	OccurrenceID uuid.UUID
}

// OccurrencePatch is a partial update. Nil fields are left unchanged.
type OccurrencePatch struct {
	Date   *types.Date
	Amount *models.Amount
	Notes  *string
}

// CloseOptions carries the optional fields of a close operation.
type CloseOptions struct {
	ClosedDate      *types.Date
	Notes           *string
	PaymentSourceID *uuid.UUID
}

// findOccurrence resolves a ref inside a loaded month. Virtual instances
// are not part of the persisted document, so refs into them miss.
func findOccurrence(ledger *models.MonthLedger, ref OccurrenceRef) (*models.Instance, *models.Occurrence, error) {
	instance := ledger.Instance(ref.Kind, ref.InstanceID)
	if instance == nil {
		return nil, nil, models.ErrInstanceNotFound
	}

	occurrence := instance.Occurrence(ref.OccurrenceID)
	if occurrence == nil {
		return nil, nil, models.ErrOccurrenceNotFound
	}

	return instance, occurrence, nil
}

// UpdateOccurrence patches date, amount or notes of one occurrence, then
// resequences and recomputes the instance aggregates.
func (s *Service) UpdateOccurrence(ref OccurrenceRef, patch OccurrencePatch) (models.MonthLedger, error) {
	return s.mutate(ref.Month, func(ledger *models.MonthLedger) error {
		instance, occurrence, err := findOccurrence(ledger, ref)
		if err != nil {
			return err
		}

		if patch.Amount != nil {
			if *patch.Amount <= 0 {
				return models.ErrAmountNotPositive
			}
			occurrence.Amount = *patch.Amount
		}
		if patch.Date != nil {
			occurrence.Date = *patch.Date
		}
		if patch.Notes != nil {
			occurrence.Notes = *patch.Notes
		}
		occurrence.Touch()

		instance.Resequence()
		instance.Recompute()
		return nil
	})
}

// CloseOccurrence marks one occurrence as paid or received. When the last
// open occurrence closes, the instance closes with it and records its own
// closed date.
func (s *Service) CloseOccurrence(ref OccurrenceRef, opts CloseOptions) (models.MonthLedger, error) {
	return s.mutate(ref.Month, func(ledger *models.MonthLedger) error {
		instance, occurrence, err := findOccurrence(ledger, ref)
		if err != nil {
			return err
		}

		if occurrence.Closed {
			return models.ErrOccurrenceClosed
		}

		closedDate := types.DateOf(time.Now())
		if opts.ClosedDate != nil {
			closedDate = *opts.ClosedDate
		}

		occurrence.Close(closedDate)
		if opts.Notes != nil {
			occurrence.Notes = *opts.Notes
		}
		if opts.PaymentSourceID != nil {
			occurrence.PaymentSourceID = opts.PaymentSourceID
		}

		instance.Recompute()
		return nil
	})
}

// ReopenOccurrence clears the closed state of one occurrence. The
// instance's closed state becomes false unconditionally; reopening an
// already open occurrence is a no-op.
func (s *Service) ReopenOccurrence(ref OccurrenceRef) (models.MonthLedger, error) {
	return s.mutate(ref.Month, func(ledger *models.MonthLedger) error {
		instance, occurrence, err := findOccurrence(ledger, ref)
		if err != nil {
			return err
		}

		// Reopening a closed payment would leave a second open
		// occurrence next to the remainder and desync the balance.
		if instance.IsPayoff() {
			return models.ErrInstanceIsPayoff
		}

		occurrence.Reopen()
		instance.Recompute()
		return nil
	})
}

// AddAdhocOccurrence appends a user-created occurrence to an instance.
func (s *Service) AddAdhocOccurrence(month types.Month, kind models.InstanceKind, instanceID uuid.UUID, date types.Date, amount models.Amount) (models.MonthLedger, error) {
	return s.mutate(month, func(ledger *models.MonthLedger) error {
		instance := ledger.Instance(kind, instanceID)
		if instance == nil {
			return models.ErrInstanceNotFound
		}
		if instance.IsPayoff() {
			return models.ErrInstanceIsPayoff
		}

		if amount <= 0 {
			return models.ErrAmountNotPositive
		}

		instance.Occurrences = append(instance.Occurrences, models.NewAdhocOccurrence(date, amount))
		instance.Resequence()
		instance.Recompute()
		return nil
	})
}

// RemoveOccurrence deletes one occurrence. Only ad-hoc occurrences and
// occurrences of manually tracked payoff bills can be removed;
// template-derived occurrences are edited or their template deactivated
// instead.
func (s *Service) RemoveOccurrence(ref OccurrenceRef) (models.MonthLedger, error) {
	return s.mutate(ref.Month, func(ledger *models.MonthLedger) error {
		instance, occurrence, err := findOccurrence(ledger, ref)
		if err != nil {
			return err
		}

		manualPayoff := instance.Payoff != nil && instance.Payoff.Manual
		if !occurrence.Adhoc && !manualPayoff {
			return models.ErrOccurrenceNotAdhoc
		}

		kept := instance.Occurrences[:0]
		for _, o := range instance.Occurrences {
			if o.ID != ref.OccurrenceID {
				kept = append(kept, o)
			}
		}
		instance.Occurrences = kept

		instance.Resequence()
		instance.Recompute()
		return nil
	})
}

// SplitOccurrence records a partial payment: the original occurrence
// shrinks to the paid amount and closes, the remainder becomes a new open
// ad-hoc occurrence dated at month end. The two amounts always sum to the
// original expected amount.
func (s *Service) SplitOccurrence(ref OccurrenceRef, paid models.Amount, closedDate types.Date) (models.MonthLedger, error) {
	return s.mutate(ref.Month, func(ledger *models.MonthLedger) error {
		instance, occurrence, err := findOccurrence(ledger, ref)
		if err != nil {
			return err
		}

		// Partial payoff payments go through AddPayoffPayment, which
		// keeps the tracked balance in step with the occurrences.
		if instance.IsPayoff() {
			return models.ErrInstanceIsPayoff
		}
		if occurrence.Closed {
			return models.ErrOccurrenceClosed
		}
		if paid <= 0 || paid >= occurrence.Amount {
			// Full payment is a close, not a split.
			return models.ErrSplitAmount
		}

		remainder := occurrence.Amount - paid
		occurrence.Amount = paid
		occurrence.Close(closedDate)

		rest := models.NewAdhocOccurrence(ref.Month.Last(), remainder)
		instance.Occurrences = append(instance.Occurrences, rest)

		instance.Resequence()
		instance.Recompute()
		return nil
	})
}

// ResetInstance discards all customization of a template-linked instance
// and regenerates it from its template. Ad-hoc instances have no template
// to fall back to.
func (s *Service) ResetInstance(month types.Month, kind models.InstanceKind, instanceID uuid.UUID) (models.MonthLedger, error) {
	return s.mutate(month, func(ledger *models.MonthLedger) error {
		instance := ledger.Instance(kind, instanceID)
		if instance == nil {
			return models.ErrInstanceNotFound
		}
		if instance.TemplateID == nil {
			return models.ErrInstanceNotLinked
		}

		var template models.Template
		if kind == models.KindIncome {
			income, err := s.registry.Income(*instance.TemplateID)
			if err != nil {
				return err
			}
			template = income.Template
		} else {
			bill, err := s.registry.Bill(*instance.TemplateID)
			if err != nil {
				return err
			}
			template = bill.Template
		}

		fresh := instanceFromTemplate(template, month)
		fresh.ID = instance.ID
		fresh.CreatedAt = instance.CreatedAt
		*instance = fresh
		return nil
	})
}

// CreateAdhocInstance adds a one-off bill or income entered directly for
// this month, without a backing template.
func (s *Service) CreateAdhocInstance(month types.Month, kind models.InstanceKind, name string, categoryID uuid.UUID, date types.Date, amount models.Amount) (models.MonthLedger, error) {
	return s.mutate(month, func(ledger *models.MonthLedger) error {
		if name == "" {
			return models.ErrNameRequired
		}
		if amount <= 0 {
			return models.ErrAmountNotPositive
		}
		if !kind.Valid() {
			return models.ErrInstanceNotFound
		}

		instance := models.NewInstance(month)
		instance.Adhoc = true
		instance.BillingPeriod = models.PeriodMonthly
		instance.Metadata = models.InstanceMetadata{Name: name, CategoryID: categoryID}
		instance.Occurrences = []models.Occurrence{models.NewAdhocOccurrence(date, amount)}
		instance.Resequence()
		instance.Recompute()

		ledger.Append(kind, instance)
		return nil
	})
}
