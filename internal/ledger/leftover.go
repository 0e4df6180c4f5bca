package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

// Leftover is the projected end-of-month cash position. When Valid is
// false the number must not be displayed as authoritative; Message and
// MissingSources explain what is needed to make it valid.
type Leftover struct {
	Month             types.Month   `json:"month" example:"2025-08"`
	Valid             bool          `json:"valid" example:"true"`
	MissingSources    []uuid.UUID   `json:"missingSources,omitempty"`
	Message           string        `json:"message,omitempty" example:""`
	BankBalances      models.Amount `json:"bankBalances" example:"5000.00"`
	RemainingIncome   models.Amount `json:"remainingIncome" example:"1000.00"`
	RemainingExpenses models.Amount `json:"remainingExpenses" example:"200.00"`
	Leftover          models.Amount `json:"leftover" example:"5800.00"`
}

// CalculateLeftover combines the month's bank balance snapshots with the
// remaining open amounts across all bill and income occurrences, virtual
// and payoff entries included.
//
// Every payment source not excluded from the calculation needs an entered
// balance; otherwise the result is marked invalid and lists what is
// missing.
func (s *Service) CalculateLeftover(month types.Month) (Leftover, error) {
	ledger, err := s.Month(month)
	if err != nil {
		return Leftover{}, err
	}

	sources, err := s.registry.PaymentSources()
	if err != nil {
		return Leftover{}, err
	}

	result := Leftover{Month: month, Valid: true}

	var missingNames []string
	for _, source := range sources {
		if source.ExcludeFromLeftover {
			continue
		}

		balance, ok := ledger.BankBalances[source.ID]
		if !ok {
			result.MissingSources = append(result.MissingSources, source.ID)
			missingNames = append(missingNames, source.Name)
			continue
		}

		result.BankBalances += balance
	}

	if len(result.MissingSources) > 0 {
		result.Valid = false
		result.Message = fmt.Sprintf("no balance is entered for %s, the leftover cannot be calculated", strings.Join(missingNames, ", "))
	}

	for _, instance := range ledger.IncomeInstances {
		result.RemainingIncome += instance.OpenAmount()
	}
	for _, instance := range ledger.BillInstances {
		result.RemainingExpenses += instance.OpenAmount()
	}

	result.Leftover = result.BankBalances + result.RemainingIncome - result.RemainingExpenses

	return result, nil
}
