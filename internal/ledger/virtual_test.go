package ledger_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

func (suite *TestSuiteStandard) actualClaim(total models.Amount, submissions ...models.Submission) models.Claim {
	claim := models.Claim{
		Number:           1,
		FamilyMemberName: "Alex",
		CategoryName:     "Medical",
		ServiceDate:      types.NewDate(2025, time.August, 14),
		TotalAmount:      total,
		Submissions:      submissions,
	}
	claim.Init()

	return claim
}

func (suite *TestSuiteStandard) TestExpectedClaimProjection() {
	suite.createTestMonth(august())

	appointment := types.NewDate(2025, time.August, 20)
	claim := models.Claim{
		FamilyMemberName: "Sam",
		CategoryName:     "Dental",
		ServiceDate:      appointment,
		Expected: &models.ExpectedExpense{
			Cost:            20000,
			Reimbursement:   16000,
			AppointmentDate: &appointment,
		},
	}
	claim.Init()
	suite.claims.claims = []models.Claim{claim}

	month, err := suite.service.Month(august())
	suite.Require().Nil(err)

	suite.Require().Len(month.BillInstances, 1)
	bill := month.BillInstances[0]
	suite.Assert().Equal(models.SourceInsurance, bill.Source)
	suite.Assert().True(bill.IsVirtual())
	suite.Assert().Equal("Dental: Sam", bill.Metadata.Name)
	suite.Assert().Equal(models.Amount(20000), bill.ExpectedAmount)
	suite.Require().Len(bill.Occurrences, 1)
	suite.Assert().Equal("2025-08-20", bill.Occurrences[0].Date.String())

	suite.Require().Len(month.IncomeInstances, 1)
	income := month.IncomeInstances[0]
	suite.Assert().True(income.IsVirtual())
	suite.Assert().Equal(models.Amount(16000), income.ExpectedAmount)
}

func (suite *TestSuiteStandard) TestProjectionIsStableAcrossReads() {
	suite.createTestMonth(august())

	claim := suite.actualClaim(15000)
	suite.claims.claims = []models.Claim{claim}

	first, err := suite.service.Month(august())
	suite.Require().Nil(err)
	second, err := suite.service.Month(august())
	suite.Require().Nil(err)

	suite.Require().Len(first.BillInstances, 1)
	suite.Require().Len(second.BillInstances, 1)
	suite.Assert().Equal(first.BillInstances[0].ID, second.BillInstances[0].ID)
	suite.Assert().Equal(first.BillInstances[0].Occurrences[0].ID, second.BillInstances[0].Occurrences[0].ID)
}

func (suite *TestSuiteStandard) TestActualClaimBillClosesWithActiveSubmission() {
	suite.createTestMonth(august())

	pending := models.Submission{
		ID:            uuid.New(),
		Status:        models.SubmissionPending,
		AmountClaimed: 15000,
	}
	claim := suite.actualClaim(15000, pending)
	suite.claims.claims = []models.Claim{claim}

	month, err := suite.service.Month(august())
	suite.Require().Nil(err)

	suite.Require().Len(month.BillInstances, 1)
	suite.Assert().True(month.BillInstances[0].Occurrences[0].Closed)

	// The in-flight submission shows up as open expected income.
	suite.Require().Len(month.IncomeInstances, 1)
	income := month.IncomeInstances[0]
	suite.Require().Len(income.Occurrences, 1)
	suite.Assert().False(income.Occurrences[0].Closed)
	suite.Assert().Equal(models.Amount(15000), income.Occurrences[0].Amount)
}

func (suite *TestSuiteStandard) TestResolvedSubmissionsMirroredAsIncome() {
	suite.createTestMonth(august())

	reimbursed := models.Amount(9000)
	resolved := types.NewDate(2025, time.August, 25)
	approved := models.Submission{
		ID:               uuid.New(),
		Status:           models.SubmissionApproved,
		AmountClaimed:    15000,
		AmountReimbursed: &reimbursed,
		DateResolved:     &resolved,
	}
	second := models.Submission{
		ID:            uuid.New(),
		Status:        models.SubmissionDraft,
		AmountClaimed: 6000,
	}
	claim := suite.actualClaim(15000, approved, second)
	suite.claims.claims = []models.Claim{claim}

	month, err := suite.service.Month(august())
	suite.Require().Nil(err)

	suite.Require().Len(month.IncomeInstances, 1)
	income := month.IncomeInstances[0]
	suite.Require().Len(income.Occurrences, 2)

	suite.Assert().Equal(models.Amount(9000), income.Occurrences[0].Amount)
	suite.Assert().True(income.Occurrences[0].Closed)
	suite.Assert().Equal("2025-08-25", income.Occurrences[0].Date.String())

	suite.Assert().Equal(models.Amount(6000), income.Occurrences[1].Amount)
	suite.Assert().False(income.Occurrences[1].Closed)
}

func (suite *TestSuiteStandard) TestDeniedChainShowsNoIncome() {
	suite.createTestMonth(august())

	zero := models.Amount(0)
	denied := models.Submission{
		ID:               uuid.New(),
		Status:           models.SubmissionDenied,
		AmountClaimed:    15000,
		AmountReimbursed: &zero,
	}
	claim := suite.actualClaim(15000, denied)
	suite.claims.claims = []models.Claim{claim}

	month, err := suite.service.Month(august())
	suite.Require().Nil(err)

	suite.Assert().Empty(month.IncomeInstances)
}

func (suite *TestSuiteStandard) TestVirtualEntriesNeverPersisted() {
	source := suite.createTestPaymentSource(models.PaymentSource{})
	suite.createTestMonth(august())

	claim := suite.actualClaim(15000)
	suite.claims.claims = []models.Claim{claim}

	// Read with projection, then mutate the month and verify the stored
	// document never contains an insurance entry.
	month, err := suite.service.Month(august())
	suite.Require().Nil(err)
	suite.Require().Len(month.BillInstances, 1)

	synced, err := suite.service.SyncMonth(august())
	suite.Require().Nil(err)
	suite.Require().Len(synced.BillInstances, 1)

	_, err = suite.service.SetBankBalance(august(), source.ID, 100000)
	suite.Require().Nil(err)

	raw, err := suite.store.ReadRaw("months/2025-08")
	suite.Require().Nil(err)
	suite.Assert().NotContains(string(raw), string(models.SourceInsurance))

	// A document with a leaked virtual instance is repaired on read.
	leaked := month
	leaked.ReadOnly = false
	suite.Require().Nil(suite.store.Write("months/2025-08", leaked))

	repaired, err := suite.service.Month(august())
	suite.Require().Nil(err)
	suite.Require().Len(repaired.BillInstances, 1)
	suite.Assert().True(repaired.BillInstances[0].IsVirtual())

	raw, err = suite.store.ReadRaw("months/2025-08")
	suite.Require().Nil(err)
	suite.Assert().NotContains(string(raw), string(models.SourceInsurance))
}
