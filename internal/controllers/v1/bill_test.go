package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	v1 "github.com/homeledger/backend/internal/controllers/v1"
	"github.com/homeledger/backend/internal/models"
)

func (suite *TestSuiteStandard) createTestCategory(name string) v1.CategoryResponse {
	r := suite.request(http.MethodPost, "http://example.com/v1/categories", models.Category{Name: name})
	suite.assertHTTPStatus(&r, http.StatusCreated)

	var response v1.CategoryResponse
	suite.decodeResponse(&r, &response)

	return response
}

func (suite *TestSuiteStandard) createTestPaymentSource(name string) v1.PaymentSourceResponse {
	r := suite.request(http.MethodPost, "http://example.com/v1/payment-sources", models.PaymentSource{
		Name: name,
		Type: models.SourceBankAccount,
	})
	suite.assertHTTPStatus(&r, http.StatusCreated)

	var response v1.PaymentSourceResponse
	suite.decodeResponse(&r, &response)

	return response
}

func (suite *TestSuiteStandard) createTestBill(bill models.Bill, expectedStatus ...int) v1.BillResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	if bill.Name == "" {
		bill.Name = "Electric"
	}
	if bill.Amount == 0 {
		bill.Amount = models.Amount(13450)
	}
	if bill.BillingPeriod == "" {
		bill.BillingPeriod = models.PeriodMonthly
		bill.Anchor = models.Anchor{Day: 14}
	}
	bill.Active = true

	r := suite.request(http.MethodPost, "http://example.com/v1/bills", bill)
	suite.assertHTTPStatus(&r, expectedStatus...)

	var response v1.BillResponse
	suite.decodeResponse(&r, &response)

	return response
}

func (suite *TestSuiteStandard) createTestIncome(income models.Income, expectedStatus ...int) v1.IncomeResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	if income.Name == "" {
		income.Name = "Paycheck"
	}
	if income.Amount == 0 {
		income.Amount = models.Amount(250000)
	}
	if income.BillingPeriod == "" {
		income.BillingPeriod = models.PeriodMonthly
		income.Anchor = models.Anchor{Day: 1}
	}
	income.Active = true

	r := suite.request(http.MethodPost, "http://example.com/v1/incomes", income)
	suite.assertHTTPStatus(&r, expectedStatus...)

	var response v1.IncomeResponse
	suite.decodeResponse(&r, &response)

	return response
}

func (suite *TestSuiteStandard) TestOptionsBill() {
	path := fmt.Sprintf("http://example.com/v1/bills/%s", uuid.New())
	recorder := suite.request(http.MethodOptions, path, "")
	assert.Equal(suite.T(), http.StatusNoContent, recorder.Code)

	recorder = suite.request(http.MethodOptions, "http://example.com/v1/bills", "")
	assert.Equal(suite.T(), http.StatusNoContent, recorder.Code)
}

func (suite *TestSuiteStandard) TestCreateBill() {
	category := suite.createTestCategory("Utilities")
	source := suite.createTestPaymentSource("Checking")

	bill := suite.createTestBill(models.Bill{Template: models.Template{
		CategoryID:      category.Data.ID,
		PaymentSourceID: source.Data.ID,
	}})

	assert.NotEqual(suite.T(), uuid.Nil, bill.Data.ID)
	assert.Equal(suite.T(), "Electric", bill.Data.Name)
	assert.Equal(suite.T(), models.Amount(13450), bill.Data.Amount)
}

func (suite *TestSuiteStandard) TestCreateBillInvalid() {
	recorder := suite.request(http.MethodPost, "http://example.com/v1/bills", "")
	suite.assertHTTPStatus(&recorder, http.StatusBadRequest)
	assert.Contains(suite.T(), recorder.Body.String(), "must not be empty")

	recorder = suite.request(http.MethodPost, "http://example.com/v1/bills", models.Bill{Template: models.Template{
		Name:          "No amount",
		BillingPeriod: models.PeriodMonthly,
		Anchor:        models.Anchor{Day: 3},
	}})
	suite.assertHTTPStatus(&recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetBills() {
	suite.createTestBill(models.Bill{})
	suite.createTestBill(models.Bill{Template: models.Template{Name: "Internet", Amount: models.Amount(6500)}})

	recorder := suite.request(http.MethodGet, "http://example.com/v1/bills", "")
	suite.assertHTTPStatus(&recorder, http.StatusOK)

	var response v1.BillListResponse
	suite.decodeResponse(&recorder, &response)
	assert.Len(suite.T(), response.Data, 2)

	recorder = suite.request(http.MethodGet, "http://example.com/v1/bills?search=inter", "")
	suite.assertHTTPStatus(&recorder, http.StatusOK)
	suite.decodeResponse(&recorder, &response)
	assert.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), "Internet", response.Data[0].Name)
}

func (suite *TestSuiteStandard) TestUpdateBill() {
	bill := suite.createTestBill(models.Bill{})

	path := fmt.Sprintf("http://example.com/v1/bills/%s", bill.Data.ID)
	recorder := suite.request(http.MethodPatch, path, map[string]any{"name": "Electric Co."})
	suite.assertHTTPStatus(&recorder, http.StatusOK)

	var response v1.BillResponse
	suite.decodeResponse(&recorder, &response)
	assert.Equal(suite.T(), "Electric Co.", response.Data.Name)
	assert.Equal(suite.T(), bill.Data.ID, response.Data.ID)
}

func (suite *TestSuiteStandard) TestDeleteBill() {
	bill := suite.createTestBill(models.Bill{})

	path := fmt.Sprintf("http://example.com/v1/bills/%s", bill.Data.ID)
	recorder := suite.request(http.MethodDelete, path, "")
	suite.assertHTTPStatus(&recorder, http.StatusNoContent)

	recorder = suite.request(http.MethodGet, path, "")
	suite.assertHTTPStatus(&recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBillNotFound() {
	recorder := suite.request(http.MethodGet, fmt.Sprintf("http://example.com/v1/bills/%s", uuid.New()), "")
	suite.assertHTTPStatus(&recorder, http.StatusNotFound)

	recorder = suite.request(http.MethodGet, "http://example.com/v1/bills/NotParseableAsUUID", "")
	suite.assertHTTPStatus(&recorder, http.StatusBadRequest)
}
