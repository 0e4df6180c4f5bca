package models

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/types"
)

// Legacy month documents (version < 2) stored instances flat: one amount
// and an is_paid flag instead of an occurrence list, with snake_case keys.
// They are upgraded in memory on every read and the upgraded shape is
// persisted back opportunistically. The upgrade is idempotent: upgraded
// documents carry the current schema version and take the direct path.

type legacyInstance struct {
	ID              uuid.UUID     `json:"id"`
	TemplateID      *uuid.UUID    `json:"template_id"`
	Name            string        `json:"name"`
	CategoryID      uuid.UUID     `json:"category_id"`
	PaymentSourceID uuid.UUID     `json:"payment_source_id"`
	BillingPeriod   BillingPeriod `json:"billing_period"`
	Amount          Amount        `json:"amount"`
	DueDate         *types.Date   `json:"due_date"`
	IsPaid          bool          `json:"is_paid"`
	PaidDate        *types.Date   `json:"paid_date"`
	Notes           string        `json:"notes"`
	Adhoc           bool          `json:"is_adhoc"`
}

type legacyMonth struct {
	Month           types.Month                  `json:"month"`
	BillInstances   []legacyInstance             `json:"bill_instances"`
	IncomeInstances []legacyInstance             `json:"income_instances"`
	BankBalances    map[uuid.UUID]Amount         `json:"bank_balances"`
	Savings         map[uuid.UUID]SavingsBalance `json:"savings"`
	ReadOnly        bool                         `json:"read_only"`
}

// MigrateMonth decodes a stored month document of any known schema version
// and returns it in the current shape. The second return value reports
// whether the document had to be upgraded and should be written back.
func MigrateMonth(raw []byte) (MonthLedger, bool, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return MonthLedger{}, false, err
	}

	if probe.Version >= MonthSchemaVersion {
		var ledger MonthLedger
		if err := json.Unmarshal(raw, &ledger); err != nil {
			return MonthLedger{}, false, err
		}
		if ledger.BankBalances == nil {
			ledger.BankBalances = make(map[uuid.UUID]Amount)
		}
		return ledger, false, nil
	}

	var legacy legacyMonth
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return MonthLedger{}, false, err
	}

	ledger := NewMonthLedger(legacy.Month)
	ledger.ReadOnly = legacy.ReadOnly
	ledger.Savings = legacy.Savings
	if legacy.BankBalances != nil {
		ledger.BankBalances = legacy.BankBalances
	}

	for _, l := range legacy.BillInstances {
		ledger.BillInstances = append(ledger.BillInstances, upgradeInstance(l, legacy.Month))
	}
	for _, l := range legacy.IncomeInstances {
		ledger.IncomeInstances = append(ledger.IncomeInstances, upgradeInstance(l, legacy.Month))
	}

	return ledger, true, nil
}

// upgradeInstance converts a flat legacy instance to the occurrence-based
// shape: one occurrence carrying the amount and the paid state.
func upgradeInstance(l legacyInstance, month types.Month) Instance {
	i := NewInstance(month)
	if l.ID != uuid.Nil {
		i.ID = l.ID
	}
	i.TemplateID = l.TemplateID
	i.BillingPeriod = l.BillingPeriod
	if i.BillingPeriod == "" {
		i.BillingPeriod = PeriodMonthly
	}
	i.Adhoc = l.Adhoc
	i.Metadata = InstanceMetadata{
		Name:            l.Name,
		CategoryID:      l.CategoryID,
		PaymentSourceID: l.PaymentSourceID,
	}

	date := month.First()
	if l.DueDate != nil {
		date = *l.DueDate
	} else if l.PaidDate != nil {
		date = *l.PaidDate
	}

	o := NewOccurrence(date, l.Amount)
	o.Notes = l.Notes
	o.Adhoc = l.Adhoc
	if l.IsPaid {
		closedDate := date
		if l.PaidDate != nil {
			closedDate = *l.PaidDate
		}
		o.Close(closedDate)
	}

	i.Occurrences = []Occurrence{o}
	i.Resequence()
	i.Recompute()

	return i
}
