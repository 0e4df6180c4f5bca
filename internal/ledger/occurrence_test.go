package ledger_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/ledger"
	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

// billRef creates a month with one monthly bill and returns the ref to
// its single occurrence.
func (suite *TestSuiteStandard) billRef() ledger.OccurrenceRef {
	suite.createTestBill(models.Bill{})
	created := suite.createTestMonth(august())

	suite.Require().Len(created.BillInstances, 1)
	suite.Require().Len(created.BillInstances[0].Occurrences, 1)

	return ledger.OccurrenceRef{
		Month:        august(),
		Kind:         models.KindBill,
		InstanceID:   created.BillInstances[0].ID,
		OccurrenceID: created.BillInstances[0].Occurrences[0].ID,
	}
}

func (suite *TestSuiteStandard) TestUpdateOccurrence() {
	ref := suite.billRef()

	amount := models.Amount(15000)
	date := types.NewDate(2025, time.August, 20)
	notes := "rate hike"

	updated, err := suite.service.UpdateOccurrence(ref, ledger.OccurrencePatch{
		Amount: &amount,
		Date:   &date,
		Notes:  &notes,
	})
	suite.Require().Nil(err)

	instance := updated.BillInstances[0]
	suite.Assert().Equal(models.Amount(15000), instance.ExpectedAmount)

	occurrence := instance.Occurrences[0]
	suite.Assert().Equal("2025-08-20", occurrence.Date.String())
	suite.Assert().Equal("rate hike", occurrence.Notes)
}

func (suite *TestSuiteStandard) TestUpdateOccurrenceRejectsNonPositiveAmount() {
	ref := suite.billRef()

	amount := models.Amount(0)
	_, err := suite.service.UpdateOccurrence(ref, ledger.OccurrencePatch{Amount: &amount})
	suite.Assert().ErrorIs(err, models.ErrAmountNotPositive)

	// The failed mutation must not have persisted anything.
	month, err := suite.service.Month(august())
	suite.Require().Nil(err)
	suite.Assert().Equal(models.Amount(13450), month.BillInstances[0].ExpectedAmount)
}

func (suite *TestSuiteStandard) TestUpdateOccurrenceResequencesByDate() {
	ref := suite.billRef()

	_, err := suite.service.AddAdhocOccurrence(august(), models.KindBill, ref.InstanceID, types.NewDate(2025, time.August, 2), 1000)
	suite.Require().Nil(err)

	month, err := suite.service.Month(august())
	suite.Require().Nil(err)

	occurrences := month.BillInstances[0].Occurrences
	suite.Require().Len(occurrences, 2)
	suite.Assert().Equal("2025-08-02", occurrences[0].Date.String())
	suite.Assert().Equal(1, occurrences[0].Sequence)
	suite.Assert().Equal("2025-08-14", occurrences[1].Date.String())
	suite.Assert().Equal(2, occurrences[1].Sequence)
}

func (suite *TestSuiteStandard) TestCloseAndReopenOccurrence() {
	ref := suite.billRef()

	closedDate := types.NewDate(2025, time.August, 12)
	source := suite.createTestPaymentSource(models.PaymentSource{})

	updated, err := suite.service.CloseOccurrence(ref, ledger.CloseOptions{
		ClosedDate:      &closedDate,
		PaymentSourceID: &source.ID,
	})
	suite.Require().Nil(err)

	instance := updated.BillInstances[0]
	suite.Assert().True(instance.Closed)
	suite.Require().NotNil(instance.ClosedDate)
	suite.Assert().Equal("2025-08-12", instance.ClosedDate.String())

	occurrence := instance.Occurrences[0]
	suite.Assert().True(occurrence.Closed)
	suite.Require().NotNil(occurrence.PaymentSourceID)
	suite.Assert().Equal(source.ID, *occurrence.PaymentSourceID)

	_, err = suite.service.CloseOccurrence(ref, ledger.CloseOptions{})
	suite.Assert().ErrorIs(err, models.ErrOccurrenceClosed)

	reopened, err := suite.service.ReopenOccurrence(ref)
	suite.Require().Nil(err)

	instance = reopened.BillInstances[0]
	suite.Assert().False(instance.Closed)
	suite.Assert().Nil(instance.ClosedDate)
	suite.Assert().False(instance.Occurrences[0].Closed)
	suite.Assert().Nil(instance.Occurrences[0].ClosedDate)
}

func (suite *TestSuiteStandard) TestCloseOccurrenceDefaultsToToday() {
	ref := suite.billRef()

	updated, err := suite.service.CloseOccurrence(ref, ledger.CloseOptions{})
	suite.Require().Nil(err)

	occurrence := updated.BillInstances[0].Occurrences[0]
	suite.Require().NotNil(occurrence.ClosedDate)
	suite.Assert().Equal(types.DateOf(time.Now()).String(), occurrence.ClosedDate.String())
}

func (suite *TestSuiteStandard) TestRemoveOccurrence() {
	ref := suite.billRef()

	// Template-derived occurrences cannot be removed.
	_, err := suite.service.RemoveOccurrence(ref)
	suite.Assert().ErrorIs(err, models.ErrOccurrenceNotAdhoc)

	updated, err := suite.service.AddAdhocOccurrence(august(), models.KindBill, ref.InstanceID, types.NewDate(2025, time.August, 25), 2000)
	suite.Require().Nil(err)
	suite.Require().Len(updated.BillInstances[0].Occurrences, 2)

	adhoc := updated.BillInstances[0].Occurrences[1]
	suite.Require().True(adhoc.Adhoc)

	updated, err = suite.service.RemoveOccurrence(ledger.OccurrenceRef{
		Month:        august(),
		Kind:         models.KindBill,
		InstanceID:   ref.InstanceID,
		OccurrenceID: adhoc.ID,
	})
	suite.Require().Nil(err)
	suite.Assert().Len(updated.BillInstances[0].Occurrences, 1)
}

func (suite *TestSuiteStandard) TestSplitOccurrence() {
	ref := suite.billRef()

	amount := models.Amount(10000)
	_, err := suite.service.UpdateOccurrence(ref, ledger.OccurrencePatch{Amount: &amount})
	suite.Require().Nil(err)

	updated, err := suite.service.SplitOccurrence(ref, 6000, types.NewDate(2025, time.August, 14))
	suite.Require().Nil(err)

	instance := updated.BillInstances[0]
	suite.Require().Len(instance.Occurrences, 2)

	// Split never changes the instance total.
	suite.Assert().Equal(models.Amount(10000), instance.ExpectedAmount)
	suite.Assert().False(instance.Closed)

	paid := instance.Occurrence(ref.OccurrenceID)
	suite.Require().NotNil(paid)
	suite.Assert().Equal(models.Amount(6000), paid.Amount)
	suite.Assert().True(paid.Closed)

	var rest *models.Occurrence
	for idx := range instance.Occurrences {
		if instance.Occurrences[idx].ID != ref.OccurrenceID {
			rest = &instance.Occurrences[idx]
		}
	}
	suite.Require().NotNil(rest)
	suite.Assert().Equal(models.Amount(4000), rest.Amount)
	suite.Assert().False(rest.Closed)
	suite.Assert().True(rest.Adhoc)
	suite.Assert().Equal("2025-08-31", rest.Date.String())
}

func (suite *TestSuiteStandard) TestSplitOccurrenceRejectsBadAmounts() {
	ref := suite.billRef()

	_, err := suite.service.SplitOccurrence(ref, 0, types.NewDate(2025, time.August, 14))
	suite.Assert().ErrorIs(err, models.ErrSplitAmount)

	// Paying the full amount is a close, not a split.
	_, err = suite.service.SplitOccurrence(ref, 13450, types.NewDate(2025, time.August, 14))
	suite.Assert().ErrorIs(err, models.ErrSplitAmount)

	_, err = suite.service.CloseOccurrence(ref, ledger.CloseOptions{})
	suite.Require().Nil(err)

	_, err = suite.service.SplitOccurrence(ref, 5000, types.NewDate(2025, time.August, 14))
	suite.Assert().ErrorIs(err, models.ErrOccurrenceClosed)
}

func (suite *TestSuiteStandard) TestResetInstance() {
	ref := suite.billRef()

	amount := models.Amount(99999)
	_, err := suite.service.UpdateOccurrence(ref, ledger.OccurrencePatch{Amount: &amount})
	suite.Require().Nil(err)

	reset, err := suite.service.ResetInstance(august(), models.KindBill, ref.InstanceID)
	suite.Require().Nil(err)

	instance := reset.BillInstances[0]
	suite.Assert().Equal(ref.InstanceID, instance.ID)
	suite.Assert().Equal(models.Amount(13450), instance.ExpectedAmount)
	suite.Require().Len(instance.Occurrences, 1)
	suite.Assert().Equal("2025-08-14", instance.Occurrences[0].Date.String())
}

func (suite *TestSuiteStandard) TestResetInstanceRequiresTemplate() {
	suite.createTestMonth(august())

	category, err := suite.registry.EnsureCategory("Misc")
	suite.Require().Nil(err)

	created, err := suite.service.CreateAdhocInstance(august(), models.KindBill, "Car repair", category.ID, types.NewDate(2025, time.August, 9), 42000)
	suite.Require().Nil(err)
	suite.Require().Len(created.BillInstances, 1)

	_, err = suite.service.ResetInstance(august(), models.KindBill, created.BillInstances[0].ID)
	suite.Assert().ErrorIs(err, models.ErrInstanceNotLinked)
}

func (suite *TestSuiteStandard) TestCreateAdhocInstance() {
	suite.createTestMonth(august())

	category, err := suite.registry.EnsureCategory("Misc")
	suite.Require().Nil(err)

	created, err := suite.service.CreateAdhocInstance(august(), models.KindIncome, "Tax refund", category.ID, types.NewDate(2025, time.August, 9), 42000)
	suite.Require().Nil(err)

	suite.Require().Len(created.IncomeInstances, 1)
	instance := created.IncomeInstances[0]
	suite.Assert().True(instance.Adhoc)
	suite.Assert().Nil(instance.TemplateID)
	suite.Assert().Equal("Tax refund", instance.Metadata.Name)
	suite.Assert().Equal(models.Amount(42000), instance.ExpectedAmount)

	_, err = suite.service.CreateAdhocInstance(august(), models.KindIncome, "", category.ID, types.NewDate(2025, time.August, 9), 42000)
	suite.Assert().ErrorIs(err, models.ErrNameRequired)
}

func (suite *TestSuiteStandard) TestOccurrenceNotFound() {
	ref := suite.billRef()
	ref.OccurrenceID = uuid.New()

	_, err := suite.service.CloseOccurrence(ref, ledger.CloseOptions{})
	suite.Assert().ErrorIs(err, models.ErrOccurrenceNotFound)

	ref.InstanceID = uuid.New()
	_, err = suite.service.CloseOccurrence(ref, ledger.CloseOptions{})
	suite.Assert().ErrorIs(err, models.ErrInstanceNotFound)
}
