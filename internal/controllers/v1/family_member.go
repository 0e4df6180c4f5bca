package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeledger/backend/internal/httputil"
	"github.com/homeledger/backend/internal/models"
)

type FamilyMemberListResponse struct {
	Data []models.FamilyMember `json:"data"`
}

type FamilyMemberResponse struct {
	Data models.FamilyMember `json:"data"`
}

type FamilyMemberPlansResponse struct {
	Data []models.InsurancePlan `json:"data"`
}

// RegisterFamilyMemberRoutes registers the routes for family members
// with the RouterGroup that is passed.
func (co Controller) RegisterFamilyMemberRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetFamilyMembers)
	r.POST("", co.CreateFamilyMember)

	r.OPTIONS("/:memberId", httputil.OptionsGetPatchDelete)
	r.GET("/:memberId", co.GetFamilyMember)
	r.PATCH("/:memberId", co.UpdateFamilyMember)
	r.DELETE("/:memberId", co.DeleteFamilyMember)

	r.OPTIONS("/:memberId/plans", httputil.OptionsGet)
	r.GET("/:memberId/plans", co.GetFamilyMemberPlans)
}

// GetFamilyMembers returns all family members.
func (co Controller) GetFamilyMembers(c *gin.Context) {
	members, err := co.Registry.FamilyMembers()
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, FamilyMemberListResponse{Data: members})
}

// CreateFamilyMember creates a new family member.
func (co Controller) CreateFamilyMember(c *gin.Context) {
	var data models.FamilyMember
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	if err := co.Registry.CreateFamilyMember(&data); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, FamilyMemberResponse{Data: data})
}

// GetFamilyMember returns a family member by their ID.
func (co Controller) GetFamilyMember(c *gin.Context) {
	id, err := httputil.ParseID(c, "memberId")
	if err != nil {
		return
	}

	member, err := co.Registry.FamilyMember(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, FamilyMemberResponse{Data: member})
}

// UpdateFamilyMember updates a family member. The order of planIds is
// the insurer priority used for new claims.
func (co Controller) UpdateFamilyMember(c *gin.Context) {
	id, err := httputil.ParseID(c, "memberId")
	if err != nil {
		return
	}

	member, err := co.Registry.FamilyMember(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if err := httputil.BindData(c, &member); err != nil {
		return
	}
	member.ID = id

	if err := co.Registry.SaveFamilyMember(member); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, FamilyMemberResponse{Data: member})
}

// DeleteFamilyMember deletes a family member.
func (co Controller) DeleteFamilyMember(c *gin.Context) {
	id, err := httputil.ParseID(c, "memberId")
	if err != nil {
		return
	}

	if err := co.Registry.DeleteFamilyMember(id); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetFamilyMemberPlans returns the member's insurance plans in priority
// order.
func (co Controller) GetFamilyMemberPlans(c *gin.Context) {
	id, err := httputil.ParseID(c, "memberId")
	if err != nil {
		return
	}

	plans, err := co.Registry.PlansForMember(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, FamilyMemberPlansResponse{Data: plans})
}
