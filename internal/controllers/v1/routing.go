// Package v1 contains the API v1 controllers. Controllers are a thin
// layer: they bind and validate request data, call into the services and
// translate errors to HTTP responses.
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeledger/backend/internal/claims"
	"github.com/homeledger/backend/internal/httputil"
	"github.com/homeledger/backend/internal/ledger"
	"github.com/homeledger/backend/internal/registry"
)

// Controller carries the services the v1 API is served from.
type Controller struct {
	Registry *registry.Registry
	Ledger   *ledger.Service
	Claims   *claims.Service
}

// RegisterRoutes registers all v1 routes with the RouterGroup that is
// passed.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", GetV1)
	r.OPTIONS("", OptionsV1)

	co.RegisterBillRoutes(r.Group("/bills"))
	co.RegisterIncomeRoutes(r.Group("/incomes"))
	co.RegisterCategoryRoutes(r.Group("/categories"))
	co.RegisterPaymentSourceRoutes(r.Group("/payment-sources"))
	co.RegisterFamilyMemberRoutes(r.Group("/family-members"))
	co.RegisterInsurancePlanRoutes(r.Group("/insurance-plans"))
	co.RegisterMonthRoutes(r.Group("/months"))
	co.RegisterClaimRoutes(r.Group("/claims"))
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	Bills          string `json:"bills" example:"https://example.com/api/v1/bills"`
	Incomes        string `json:"incomes" example:"https://example.com/api/v1/incomes"`
	Categories     string `json:"categories" example:"https://example.com/api/v1/categories"`
	PaymentSources string `json:"paymentSources" example:"https://example.com/api/v1/payment-sources"`
	FamilyMembers  string `json:"familyMembers" example:"https://example.com/api/v1/family-members"`
	InsurancePlans string `json:"insurancePlans" example:"https://example.com/api/v1/insurance-plans"`
	Months         string `json:"months" example:"https://example.com/api/v1/months"`
	Claims         string `json:"claims" example:"https://example.com/api/v1/claims"`
}

// GetV1 returns the links of the v1 API.
func GetV1(c *gin.Context) {
	base := httputil.RequestURL(c)

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Bills:          base + "/bills",
			Incomes:        base + "/incomes",
			Categories:     base + "/categories",
			PaymentSources: base + "/payment-sources",
			FamilyMembers:  base + "/family-members",
			InsurancePlans: base + "/insurance-plans",
			Months:         base + "/months",
			Claims:         base + "/claims",
		},
	})
}

// OptionsV1 returns the allowed HTTP verbs.
func OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}
