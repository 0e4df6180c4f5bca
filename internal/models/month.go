package models

import (
	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/types"
)

// MonthSchemaVersion is the current shape of the persisted month document.
// Documents with a lower version are migrated on read, see migrate.go.
const MonthSchemaVersion = 2

// SavingsBalance tracks one savings source over a month. End balances are
// carried forward as the next month's start balances on month creation.
type SavingsBalance struct {
	Start         Amount `json:"start" example:"1000.00"`
	End           Amount `json:"end" example:"1150.00"`
	Contributions Amount `json:"contributions" example:"150.00"`
}

// MonthLedger is the whole per-month document. It is persisted as one JSON
// blob and every mutation is a full read-modify-write cycle.
type MonthLedger struct {
	Month           types.Month                  `json:"month" example:"2025-08"`
	Version         int                          `json:"version" example:"2"`
	BillInstances   []Instance                   `json:"billInstances"`
	IncomeInstances []Instance                   `json:"incomeInstances"`
	BankBalances    map[uuid.UUID]Amount         `json:"bankBalances"` // Payment source ID → signed balance snapshot
	Savings         map[uuid.UUID]SavingsBalance `json:"savings,omitempty"`
	ReadOnly        bool                         `json:"readOnly" example:"false"`
	Timestamps
}

// NewMonthLedger returns an empty month document at the current schema
// version.
func NewMonthLedger(month types.Month) MonthLedger {
	m := MonthLedger{
		Month:        month,
		Version:      MonthSchemaVersion,
		BankBalances: make(map[uuid.UUID]Amount),
	}
	m.Touch()
	m.CreatedAt = m.UpdatedAt

	return m
}

// Instances returns the instance list of the given kind. The returned
// slice header is a copy, the backing array is shared.
func (m *MonthLedger) Instances(kind InstanceKind) []Instance {
	if kind == KindIncome {
		return m.IncomeInstances
	}

	return m.BillInstances
}

// Instance returns a pointer to the instance of the given kind and ID,
// or nil.
func (m *MonthLedger) Instance(kind InstanceKind, id uuid.UUID) *Instance {
	list := m.BillInstances
	if kind == KindIncome {
		list = m.IncomeInstances
	}

	for idx := range list {
		if list[idx].ID == id {
			return &list[idx]
		}
	}

	return nil
}

// InstanceForTemplate returns a pointer to the instance generated from the
// given template, or nil. Used by sync to keep regeneration idempotent.
func (m *MonthLedger) InstanceForTemplate(kind InstanceKind, templateID uuid.UUID) *Instance {
	list := m.BillInstances
	if kind == KindIncome {
		list = m.IncomeInstances
	}

	for idx := range list {
		if list[idx].TemplateID != nil && *list[idx].TemplateID == templateID {
			return &list[idx]
		}
	}

	return nil
}

// PayoffInstance returns a pointer to the payoff bill tracking the given
// payment source, or nil.
func (m *MonthLedger) PayoffInstance(sourceID uuid.UUID) *Instance {
	for idx := range m.BillInstances {
		p := m.BillInstances[idx].Payoff
		if p != nil && p.SourceID == sourceID {
			return &m.BillInstances[idx]
		}
	}

	return nil
}

// Append adds an instance to the list of the given kind.
func (m *MonthLedger) Append(kind InstanceKind, instance Instance) {
	if kind == KindIncome {
		m.IncomeInstances = append(m.IncomeInstances, instance)
		return
	}

	m.BillInstances = append(m.BillInstances, instance)
}

// StripVirtual removes any instance that carries the insurance source
// marker and reports whether something was removed. Virtual instances must
// never reach the store; finding one in a loaded document is repaired
// silently.
func (m *MonthLedger) StripVirtual() bool {
	stripped := false

	filter := func(list []Instance) []Instance {
		kept := list[:0]
		for _, i := range list {
			if i.IsVirtual() {
				stripped = true
				continue
			}
			kept = append(kept, i)
		}
		return kept
	}

	m.BillInstances = filter(m.BillInstances)
	m.IncomeInstances = filter(m.IncomeInstances)

	return stripped
}
