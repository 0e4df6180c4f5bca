package models

import (
	"github.com/google/uuid"
)

// PaymentSourceType categorizes where money lives.
type PaymentSourceType string

const (
	SourceBankAccount PaymentSourceType = "bank_account"
	SourceCreditCard  PaymentSourceType = "credit_card"
	SourceSavings     PaymentSourceType = "savings"
	SourceCash        PaymentSourceType = "cash"
)

// PaymentSource is an account or card that bills are paid from and incomes
// arrive on.
type PaymentSource struct {
	DefaultModel
	Name    string            `json:"name" example:"Checking"`
	Type    PaymentSourceType `json:"type" example:"bank_account"`
	Balance Amount            `json:"balance" example:"5000.00"` // Signed. Revolving debt is negative.

	// PayOffMonthly sources get an auto-generated payoff bill once a
	// balance is entered for them. TrackPaymentsManually sources get an
	// empty payoff bill immediately.
	PayOffMonthly         bool `json:"payOffMonthly" example:"false"`
	TrackPaymentsManually bool `json:"trackPaymentsManually" example:"false"`

	// ExcludeFromLeftover removes the source from the leftover calculation
	// entirely, including the missing-balance validity check.
	ExcludeFromLeftover bool `json:"excludeFromLeftover" example:"false"`

	Archived bool `json:"archived" example:"false"`
}

// Category groups bills and incomes.
type Category struct {
	DefaultModel
	Name     string `json:"name" example:"Utilities"`
	Note     string `json:"note" example:""`
	Builtin  bool   `json:"builtin" example:"false"` // Auto-provisioned, cannot be deleted
	Archived bool   `json:"archived" example:"false"`
}

// Names of the auto-provisioned categories.
const (
	CategoryNamePayoff  = "Debt Payoff"
	CategoryNameMedical = "Medical"
)

// FamilyMember is a person claims are filed for. The order of PlanIDs
// encodes insurer priority for the submission waterfall: the first plan is
// primary, the second secondary, and so on.
type FamilyMember struct {
	DefaultModel
	Name    string      `json:"name" example:"Alex"`
	PlanIDs []uuid.UUID `json:"planIds"`
}

// InsurancePlan is one insurance policy.
type InsurancePlan struct {
	DefaultModel
	Name     string `json:"name" example:"Acme Health PPO"`
	Provider string `json:"provider" example:"Acme Health"`
	MemberID string `json:"memberId" example:"XYZ123456"`
	Notes    string `json:"notes" example:""`
	Archived bool   `json:"archived" example:"false"`
}

// PlanSnapshot is the point-in-time copy of plan fields a submission keeps,
// so that later plan edits do not rewrite history.
type PlanSnapshot struct {
	Name     string `json:"name" example:"Acme Health PPO"`
	Provider string `json:"provider" example:"Acme Health"`
	MemberID string `json:"memberId" example:"XYZ123456"`
}

// Snapshot returns the snapshot of the plan.
func (p InsurancePlan) Snapshot() PlanSnapshot {
	return PlanSnapshot{
		Name:     p.Name,
		Provider: p.Provider,
		MemberID: p.MemberID,
	}
}
