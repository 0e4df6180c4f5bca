package ledger_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/ledger"
	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

func ledgerRef(month types.Month, instanceID, occurrenceID uuid.UUID) ledger.OccurrenceRef {
	return ledger.OccurrenceRef{
		Month:        month,
		Kind:         models.KindBill,
		InstanceID:   instanceID,
		OccurrenceID: occurrenceID,
	}
}

func (suite *TestSuiteStandard) TestPayoffProvisionedOnBalanceEntry() {
	card := suite.createTestPaymentSource(models.PaymentSource{
		Name:          "Visa",
		Type:          models.SourceCreditCard,
		PayOffMonthly: true,
	})
	suite.createTestMonth(august())

	updated, err := suite.service.SetBankBalance(august(), card.ID, -45000)
	suite.Require().Nil(err)

	instance := updated.PayoffInstance(card.ID)
	suite.Require().NotNil(instance)
	suite.Assert().Equal("Visa payoff", instance.Metadata.Name)
	suite.Assert().Equal(models.Amount(-45000), instance.Payoff.Balance)

	open := instance.OpenOccurrence()
	suite.Require().NotNil(open)
	suite.Assert().Equal(models.Amount(45000), open.Amount)
	suite.Assert().Equal("2025-08-31", open.Date.String())

	// The payoff category is auto-provisioned.
	categories, err := suite.registry.Categories()
	suite.Require().Nil(err)
	suite.Require().Len(categories, 1)
	suite.Assert().Equal(models.CategoryNamePayoff, categories[0].Name)
	suite.Assert().True(categories[0].Builtin)
}

func (suite *TestSuiteStandard) TestPayoffRejectsPositiveBalance() {
	card := suite.createTestPaymentSource(models.PaymentSource{
		Name:          "Visa",
		Type:          models.SourceCreditCard,
		PayOffMonthly: true,
	})
	suite.createTestMonth(august())

	_, err := suite.service.SetBankBalance(august(), card.ID, 45000)
	suite.Assert().ErrorIs(err, models.ErrPayoffBalanceSign)
}

func (suite *TestSuiteStandard) TestPayoffBalanceReentryResizesRemainder() {
	card := suite.createTestPaymentSource(models.PaymentSource{
		Name:          "Visa",
		Type:          models.SourceCreditCard,
		PayOffMonthly: true,
	})
	suite.createTestMonth(august())

	_, err := suite.service.SetBankBalance(august(), card.ID, -45000)
	suite.Require().Nil(err)

	updated, err := suite.service.SetBankBalance(august(), card.ID, -52000)
	suite.Require().Nil(err)

	instance := updated.PayoffInstance(card.ID)
	suite.Require().NotNil(instance)
	suite.Assert().Equal(models.Amount(-52000), instance.Payoff.Balance)
	suite.Require().Len(instance.Occurrences, 1)
	suite.Assert().Equal(models.Amount(52000), instance.Occurrences[0].Amount)
}

func (suite *TestSuiteStandard) TestPayoffPaymentChain() {
	card := suite.createTestPaymentSource(models.PaymentSource{
		Name:          "Visa",
		Type:          models.SourceCreditCard,
		PayOffMonthly: true,
	})
	suite.createTestMonth(august())

	created, err := suite.service.SetBankBalance(august(), card.ID, -45000)
	suite.Require().Nil(err)
	instanceID := created.PayoffInstance(card.ID).ID

	// Partial payment: the remainder reopens as a new occurrence.
	updated, err := suite.service.AddPayoffPayment(august(), instanceID, 30000, types.NewDate(2025, time.August, 10), nil)
	suite.Require().Nil(err)

	instance := updated.PayoffInstance(card.ID)
	suite.Assert().Equal(models.Amount(-15000), instance.Payoff.Balance)
	suite.Require().Len(instance.Occurrences, 2)
	suite.Assert().False(instance.Closed)

	open := instance.OpenOccurrence()
	suite.Require().NotNil(open)
	suite.Assert().Equal(models.Amount(15000), open.Amount)

	// At most one open occurrence at any time.
	openCount := 0
	for _, o := range instance.Occurrences {
		if !o.Closed {
			openCount++
		}
	}
	suite.Assert().Equal(1, openCount)

	// Final payment closes the instance.
	updated, err = suite.service.AddPayoffPayment(august(), instanceID, 15000, types.NewDate(2025, time.August, 24), nil)
	suite.Require().Nil(err)

	instance = updated.PayoffInstance(card.ID)
	suite.Assert().Equal(models.Amount(0), instance.Payoff.Balance)
	suite.Assert().True(instance.Closed)
	suite.Assert().Nil(instance.OpenOccurrence())
	suite.Assert().Equal(models.Amount(45000), instance.ExpectedAmount)
}

func (suite *TestSuiteStandard) TestPayoffPaymentWithNewBalance() {
	card := suite.createTestPaymentSource(models.PaymentSource{
		Name:          "Visa",
		Type:          models.SourceCreditCard,
		PayOffMonthly: true,
	})
	suite.createTestMonth(august())

	created, err := suite.service.SetBankBalance(august(), card.ID, -45000)
	suite.Require().Nil(err)
	instanceID := created.PayoffInstance(card.ID).ID

	// New charges arrived between balance entry and payment, so the
	// caller supplies the fresh statement balance.
	newBalance := models.Amount(-20000)
	updated, err := suite.service.AddPayoffPayment(august(), instanceID, 30000, types.NewDate(2025, time.August, 10), &newBalance)
	suite.Require().Nil(err)

	instance := updated.PayoffInstance(card.ID)
	suite.Assert().Equal(models.Amount(-20000), instance.Payoff.Balance)

	open := instance.OpenOccurrence()
	suite.Require().NotNil(open)
	suite.Assert().Equal(models.Amount(20000), open.Amount)
}

func (suite *TestSuiteStandard) TestPayoffPaymentValidation() {
	card := suite.createTestPaymentSource(models.PaymentSource{
		Name:          "Visa",
		Type:          models.SourceCreditCard,
		PayOffMonthly: true,
	})
	bill := suite.createTestBill(models.Bill{})
	created := suite.createTestMonth(august())

	month, err := suite.service.SetBankBalance(august(), card.ID, -45000)
	suite.Require().Nil(err)
	instanceID := month.PayoffInstance(card.ID).ID
	_ = bill

	_, err = suite.service.AddPayoffPayment(august(), instanceID, 0, types.NewDate(2025, time.August, 10), nil)
	suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)

	// Overpaying past zero without a new balance flips the sign.
	_, err = suite.service.AddPayoffPayment(august(), instanceID, 50000, types.NewDate(2025, time.August, 10), nil)
	suite.Assert().ErrorIs(err, models.ErrPayoffBalanceSign)

	// Regular bills are not payoff instances.
	_, err = suite.service.AddPayoffPayment(august(), created.BillInstances[0].ID, 1000, types.NewDate(2025, time.August, 10), nil)
	suite.Assert().ErrorIs(err, models.ErrInstanceNotPayoff)

	_, err = suite.service.AddPayoffPayment(august(), uuid.New(), 1000, types.NewDate(2025, time.August, 10), nil)
	suite.Assert().ErrorIs(err, models.ErrInstanceNotFound)
}

func (suite *TestSuiteStandard) TestManualPayoffProvisionedOnMonthCreate() {
	loan := suite.createTestPaymentSource(models.PaymentSource{
		Name:                  "Car loan",
		Type:                  models.SourceBankAccount,
		TrackPaymentsManually: true,
	})
	created := suite.createTestMonth(august())

	instance := created.PayoffInstance(loan.ID)
	suite.Require().NotNil(instance)
	suite.Assert().True(instance.Payoff.Manual)
	suite.Assert().Empty(instance.Occurrences)
	suite.Assert().False(instance.Closed)
}

func (suite *TestSuiteStandard) TestManualPayoffFirstPayment() {
	loan := suite.createTestPaymentSource(models.PaymentSource{
		Name:                  "Car loan",
		Type:                  models.SourceBankAccount,
		TrackPaymentsManually: true,
	})
	created := suite.createTestMonth(august())
	instanceID := created.PayoffInstance(loan.ID).ID

	// The first manual payment needs the remaining balance from the
	// caller since no balance was ever entered.
	newBalance := models.Amount(-80000)
	updated, err := suite.service.AddPayoffPayment(august(), instanceID, 25000, types.NewDate(2025, time.August, 5), &newBalance)
	suite.Require().Nil(err)

	instance := updated.PayoffInstance(loan.ID)
	suite.Require().Len(instance.Occurrences, 2)
	suite.Assert().Equal(models.Amount(-80000), instance.Payoff.Balance)

	paid := instance.Occurrences[0]
	suite.Assert().True(paid.Closed)
	suite.Assert().Equal(models.Amount(25000), paid.Amount)
	suite.Assert().Equal("2025-08-05", paid.Date.String())

	open := instance.OpenOccurrence()
	suite.Require().NotNil(open)
	suite.Assert().Equal(models.Amount(80000), open.Amount)

	// Manual payoff occurrences may be removed again.
	month, err := suite.service.RemoveOccurrence(ledgerRef(august(), instance.ID, paid.ID))
	suite.Require().Nil(err)
	suite.Assert().Len(month.PayoffInstance(loan.ID).Occurrences, 1)
}

func (suite *TestSuiteStandard) TestPayoffOccurrencesLocked() {
	card := suite.createTestPaymentSource(models.PaymentSource{
		Name:          "Visa",
		Type:          models.SourceCreditCard,
		PayOffMonthly: true,
	})
	suite.createTestMonth(august())

	created, err := suite.service.SetBankBalance(august(), card.ID, -50000)
	suite.Require().Nil(err)
	instanceID := created.PayoffInstance(card.ID).ID

	updated, err := suite.service.AddPayoffPayment(august(), instanceID, 20000, types.NewDate(2025, time.August, 10), nil)
	suite.Require().Nil(err)

	instance := updated.PayoffInstance(card.ID)
	suite.Require().Len(instance.Occurrences, 2)
	paid := instance.Occurrences[0]
	open := instance.OpenOccurrence()
	suite.Require().NotNil(open)

	// Reopening the closed payment would put a second open occurrence
	// next to the remainder.
	_, err = suite.service.ReopenOccurrence(ledgerRef(august(), instanceID, paid.ID))
	suite.Assert().ErrorIs(err, models.ErrInstanceIsPayoff)

	// Splitting the remainder would record a payment the tracked
	// balance knows nothing about.
	_, err = suite.service.SplitOccurrence(ledgerRef(august(), instanceID, open.ID), 10000, types.NewDate(2025, time.August, 20))
	suite.Assert().ErrorIs(err, models.ErrInstanceIsPayoff)

	_, err = suite.service.AddAdhocOccurrence(august(), models.KindBill, instanceID, types.NewDate(2025, time.August, 20), 5000)
	suite.Assert().ErrorIs(err, models.ErrInstanceIsPayoff)

	// Nothing persisted: still one open occurrence and the balance is
	// untouched, so the final payment closes the instance cleanly.
	current, err := suite.service.Month(august())
	suite.Require().Nil(err)
	instance = current.PayoffInstance(card.ID)
	suite.Assert().Equal(models.Amount(-30000), instance.Payoff.Balance)

	openCount := 0
	for _, o := range instance.Occurrences {
		if !o.Closed {
			openCount++
		}
	}
	suite.Assert().Equal(1, openCount)

	final, err := suite.service.AddPayoffPayment(august(), instanceID, 30000, types.NewDate(2025, time.August, 24), nil)
	suite.Require().Nil(err)
	suite.Assert().True(final.PayoffInstance(card.ID).Closed)
	suite.Assert().Equal(models.Amount(0), final.PayoffInstance(card.ID).Payoff.Balance)
}

func (suite *TestSuiteStandard) TestPayoffBalanceReentryIgnoredAfterPayment() {
	card := suite.createTestPaymentSource(models.PaymentSource{
		Name:          "Visa",
		Type:          models.SourceCreditCard,
		PayOffMonthly: true,
	})
	suite.createTestMonth(august())

	created, err := suite.service.SetBankBalance(august(), card.ID, -50000)
	suite.Require().Nil(err)
	instanceID := created.PayoffInstance(card.ID).ID

	_, err = suite.service.AddPayoffPayment(august(), instanceID, 20000, types.NewDate(2025, time.August, 10), nil)
	suite.Require().Nil(err)

	// Once a payment exists the balance moves through AddPayoffPayment
	// only; re-entering it must not resize the remainder.
	updated, err := suite.service.SetBankBalance(august(), card.ID, -10000)
	suite.Require().Nil(err)

	instance := updated.PayoffInstance(card.ID)
	suite.Assert().Equal(models.Amount(-30000), instance.Payoff.Balance)

	open := instance.OpenOccurrence()
	suite.Require().NotNil(open)
	suite.Assert().Equal(models.Amount(30000), open.Amount)
}

func (suite *TestSuiteStandard) TestManualPayoffProvisionedOnSync() {
	suite.createTestMonth(august())

	// The source appears only after the month already exists, so only
	// sync can provision its payoff bill.
	loan := suite.createTestPaymentSource(models.PaymentSource{
		Name:                  "Car loan",
		Type:                  models.SourceBankAccount,
		TrackPaymentsManually: true,
	})

	synced, err := suite.service.SyncMonth(august())
	suite.Require().Nil(err)

	instance := synced.PayoffInstance(loan.ID)
	suite.Require().NotNil(instance)
	suite.Assert().True(instance.Payoff.Manual)
	suite.Assert().Empty(instance.Occurrences)

	// Syncing again adds nothing.
	again, err := suite.service.SyncMonth(august())
	suite.Require().Nil(err)
	suite.Assert().Len(again.BillInstances, len(synced.BillInstances))
}
