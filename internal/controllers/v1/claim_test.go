package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	v1 "github.com/homeledger/backend/internal/controllers/v1"
	"github.com/homeledger/backend/internal/models"
)

func (suite *TestSuiteStandard) createTestPlan(name string) v1.InsurancePlanResponse {
	r := suite.request(http.MethodPost, "http://example.com/v1/insurance-plans", models.InsurancePlan{
		Name:     name,
		Provider: "Acme Health",
	})
	suite.assertHTTPStatus(&r, http.StatusCreated)

	var response v1.InsurancePlanResponse
	suite.decodeResponse(&r, &response)

	return response
}

func (suite *TestSuiteStandard) createTestMember(name string, planIDs ...uuid.UUID) v1.FamilyMemberResponse {
	r := suite.request(http.MethodPost, "http://example.com/v1/family-members", models.FamilyMember{
		Name:    name,
		PlanIDs: planIDs,
	})
	suite.assertHTTPStatus(&r, http.StatusCreated)

	var response v1.FamilyMemberResponse
	suite.decodeResponse(&r, &response)

	return response
}

// createTestClaim sets up two plans with waterfall priority, a member on
// both and a claim for a service on 2025-08-14.
func (suite *TestSuiteStandard) createTestClaim() v1.ClaimResponse {
	primary := suite.createTestPlan("Primary PPO")
	secondary := suite.createTestPlan("Secondary HMO")
	member := suite.createTestMember("Alex", primary.Data.ID, secondary.Data.ID)
	category := suite.createTestCategory("Dental")

	r := suite.request(http.MethodPost, "http://example.com/v1/claims", map[string]any{
		"familyMemberId": member.Data.ID,
		"categoryId":     category.Data.ID,
		"serviceDate":    "2025-08-14",
		"totalAmount":    models.Amount(15000),
	})
	suite.assertHTTPStatus(&r, http.StatusCreated)

	var response v1.ClaimResponse
	suite.decodeResponse(&r, &response)

	return response
}

func (suite *TestSuiteStandard) TestCreateClaim() {
	claim := suite.createTestClaim()

	assert.Equal(suite.T(), 1, claim.Data.Number)
	assert.Equal(suite.T(), "Alex", claim.Data.FamilyMemberName)
	assert.Equal(suite.T(), models.ClaimDraft, claim.Data.Status)
	assert.Len(suite.T(), claim.Data.Submissions, 2)
	assert.Equal(suite.T(), models.SubmissionDraft, claim.Data.Submissions[0].Status)
	assert.Equal(suite.T(), models.Amount(15000), claim.Data.Submissions[0].AmountClaimed)
	assert.Equal(suite.T(), models.SubmissionAwaitingPrevious, claim.Data.Submissions[1].Status)
}

func (suite *TestSuiteStandard) TestCreateClaimUnknownMember() {
	category := suite.createTestCategory("Dental")

	recorder := suite.request(http.MethodPost, "http://example.com/v1/claims", map[string]any{
		"familyMemberId": uuid.New(),
		"categoryId":     category.Data.ID,
		"serviceDate":    "2025-08-14",
		"totalAmount":    models.Amount(15000),
	})
	suite.assertHTTPStatus(&recorder, http.StatusNotFound)
}

// TestSubmissionWaterfall resolves the primary submission and checks that
// the secondary activates with the remaining amount.
func (suite *TestSuiteStandard) TestSubmissionWaterfall() {
	claim := suite.createTestClaim()

	path := fmt.Sprintf("http://example.com/v1/claims/%s/submissions/%s", claim.Data.ID, claim.Data.Submissions[0].ID)
	recorder := suite.request(http.MethodPatch, path, map[string]any{
		"status":           models.SubmissionApproved,
		"amountReimbursed": models.Amount(9000),
		"dateResolved":     "2025-08-25",
	})
	suite.assertHTTPStatus(&recorder, http.StatusOK)

	var response v1.ClaimResponse
	suite.decodeResponse(&recorder, &response)

	assert.Equal(suite.T(), models.ClaimInProgress, response.Data.Status)
	assert.Equal(suite.T(), models.SubmissionDraft, response.Data.Submissions[1].Status)
	assert.Equal(suite.T(), models.Amount(6000), response.Data.Submissions[1].AmountClaimed)
}

func (suite *TestSuiteStandard) TestRemoveResolvedSubmission() {
	claim := suite.createTestClaim()

	path := fmt.Sprintf("http://example.com/v1/claims/%s/submissions/%s", claim.Data.ID, claim.Data.Submissions[0].ID)
	recorder := suite.request(http.MethodPatch, path, map[string]any{
		"status":           models.SubmissionApproved,
		"amountReimbursed": models.Amount(9000),
	})
	suite.assertHTTPStatus(&recorder, http.StatusOK)

	recorder = suite.request(http.MethodDelete, path, "")
	suite.assertHTTPStatus(&recorder, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestUpdateSubmissionInvalidStatus() {
	claim := suite.createTestClaim()

	path := fmt.Sprintf("http://example.com/v1/claims/%s/submissions/%s", claim.Data.ID, claim.Data.Submissions[0].ID)
	recorder := suite.request(http.MethodPatch, path, map[string]any{"status": "lost_in_mail"})
	suite.assertHTTPStatus(&recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestMarkClaimBillPaid() {
	claim := suite.createTestClaim()

	path := fmt.Sprintf("http://example.com/v1/claims/%s/bill-paid", claim.Data.ID)
	recorder := suite.request(http.MethodPost, path, map[string]any{"date": "2025-08-20"})
	suite.assertHTTPStatus(&recorder, http.StatusOK)

	var response v1.ClaimResponse
	suite.decodeResponse(&recorder, &response)
	assert.True(suite.T(), response.Data.BillPaid)
}

func (suite *TestSuiteStandard) TestDeleteClaim() {
	claim := suite.createTestClaim()

	path := fmt.Sprintf("http://example.com/v1/claims/%s", claim.Data.ID)
	recorder := suite.request(http.MethodDelete, path, "")
	suite.assertHTTPStatus(&recorder, http.StatusNoContent)

	recorder = suite.request(http.MethodGet, path, "")
	suite.assertHTTPStatus(&recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetClaimsSearch() {
	suite.createTestClaim()

	recorder := suite.request(http.MethodGet, "http://example.com/v1/claims?search=alex", "")
	suite.assertHTTPStatus(&recorder, http.StatusOK)

	var response v1.ClaimListResponse
	suite.decodeResponse(&recorder, &response)
	assert.Len(suite.T(), response.Data, 1)

	recorder = suite.request(http.MethodGet, "http://example.com/v1/claims?search=nobody", "")
	suite.assertHTTPStatus(&recorder, http.StatusOK)
	suite.decodeResponse(&recorder, &response)
	assert.Len(suite.T(), response.Data, 0)
}

// TestClaimVirtualEntries checks that an in-progress claim shows up in the
// month view as derived bill and reimbursement entries.
func (suite *TestSuiteStandard) TestClaimVirtualEntries() {
	suite.createTestMonth(august())
	claim := suite.createTestClaim()

	path := fmt.Sprintf("http://example.com/v1/claims/%s/submissions/%s", claim.Data.ID, claim.Data.Submissions[0].ID)
	recorder := suite.request(http.MethodPatch, path, map[string]any{
		"status":           models.SubmissionApproved,
		"amountReimbursed": models.Amount(9000),
		"dateResolved":     "2025-08-25",
	})
	suite.assertHTTPStatus(&recorder, http.StatusOK)

	recorder = suite.request(http.MethodGet, "http://example.com/v1/months/2025-08", "")
	suite.assertHTTPStatus(&recorder, http.StatusOK)

	var response v1.MonthResponse
	suite.decodeResponse(&recorder, &response)

	var virtualBills []models.Instance
	for _, instance := range response.Data.BillInstances {
		if instance.Source == models.SourceInsurance {
			virtualBills = append(virtualBills, instance)
		}
	}
	var virtualIncomes []models.Instance
	for _, instance := range response.Data.IncomeInstances {
		if instance.Source == models.SourceInsurance {
			virtualIncomes = append(virtualIncomes, instance)
		}
	}

	// One derived bill for the provider invoice, one derived income
	// mirroring the submission chain: 9000 reimbursed, 6000 still claimed.
	if assert.Len(suite.T(), virtualBills, 1) {
		assert.True(suite.T(), virtualBills[0].Closed)
		assert.Equal(suite.T(), models.Amount(15000), virtualBills[0].ExpectedAmount)
	}
	if assert.Len(suite.T(), virtualIncomes, 1) {
		assert.Len(suite.T(), virtualIncomes[0].Occurrences, 2)
		assert.Equal(suite.T(), models.Amount(15000), virtualIncomes[0].ExpectedAmount)
	}
}
