package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeledger/backend/internal/httputil"
	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/registry"
)

type InsurancePlanListResponse struct {
	Data []models.InsurancePlan `json:"data"`
}

type InsurancePlanResponse struct {
	Data models.InsurancePlan `json:"data"`
}

// RegisterInsurancePlanRoutes registers the routes for insurance plans
// with the RouterGroup that is passed.
func (co Controller) RegisterInsurancePlanRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetInsurancePlans)
	r.POST("", co.CreateInsurancePlan)

	r.OPTIONS("/:planId", httputil.OptionsGetPatchDelete)
	r.GET("/:planId", co.GetInsurancePlan)
	r.PATCH("/:planId", co.UpdateInsurancePlan)
	r.DELETE("/:planId", co.DeleteInsurancePlan)
}

// GetInsurancePlans returns all insurance plans.
func (co Controller) GetInsurancePlans(c *gin.Context) {
	plans, err := co.Registry.InsurancePlans()
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	search := c.Query("search")
	hideArchived := c.Query("archived") == "false"

	filtered := make([]models.InsurancePlan, 0, len(plans))
	for _, plan := range plans {
		if hideArchived && plan.Archived {
			continue
		}
		if !registry.MatchesSearch(search, plan.Name) && !registry.MatchesSearch(search, plan.Provider) {
			continue
		}
		filtered = append(filtered, plan)
	}

	c.JSON(http.StatusOK, InsurancePlanListResponse{Data: filtered})
}

// CreateInsurancePlan creates a new insurance plan.
func (co Controller) CreateInsurancePlan(c *gin.Context) {
	var data models.InsurancePlan
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	if err := co.Registry.CreateInsurancePlan(&data); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, InsurancePlanResponse{Data: data})
}

// GetInsurancePlan returns an insurance plan by its ID.
func (co Controller) GetInsurancePlan(c *gin.Context) {
	id, err := httputil.ParseID(c, "planId")
	if err != nil {
		return
	}

	plan, err := co.Registry.InsurancePlan(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, InsurancePlanResponse{Data: plan})
}

// UpdateInsurancePlan updates an insurance plan. Submissions keep their
// plan snapshot, so history is not rewritten.
func (co Controller) UpdateInsurancePlan(c *gin.Context) {
	id, err := httputil.ParseID(c, "planId")
	if err != nil {
		return
	}

	plan, err := co.Registry.InsurancePlan(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if err := httputil.BindData(c, &plan); err != nil {
		return
	}
	plan.ID = id

	if err := co.Registry.SaveInsurancePlan(plan); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, InsurancePlanResponse{Data: plan})
}

// DeleteInsurancePlan deletes an insurance plan.
func (co Controller) DeleteInsurancePlan(c *gin.Context) {
	id, err := httputil.ParseID(c, "planId")
	if err != nil {
		return
	}

	if err := co.Registry.DeleteInsurancePlan(id); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
