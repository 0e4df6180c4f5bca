package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeledger/backend/internal/httputil"
	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/registry"
)

type BillListResponse struct {
	Data []models.Bill `json:"data"`
}

type BillResponse struct {
	Data models.Bill `json:"data"`
}

// RegisterBillRoutes registers the routes for bill templates with the
// RouterGroup that is passed.
func (co Controller) RegisterBillRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetBills)
	r.POST("", co.CreateBill)

	r.OPTIONS("/:billId", httputil.OptionsGetPatchDelete)
	r.GET("/:billId", co.GetBill)
	r.PATCH("/:billId", co.UpdateBill)
	r.DELETE("/:billId", co.DeleteBill)
}

// GetBills returns all bill templates. The search query parameter
// filters by name, active=true hides deactivated templates.
func (co Controller) GetBills(c *gin.Context) {
	bills, err := co.Registry.Bills()
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	search := c.Query("search")
	activeOnly := c.Query("active") == "true"

	filtered := make([]models.Bill, 0, len(bills))
	for _, bill := range bills {
		if activeOnly && !bill.Active {
			continue
		}
		if !registry.MatchesSearch(search, bill.Name) {
			continue
		}
		filtered = append(filtered, bill)
	}

	c.JSON(http.StatusOK, BillListResponse{Data: filtered})
}

// CreateBill creates a new bill template.
func (co Controller) CreateBill(c *gin.Context) {
	var data models.Bill
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	if err := co.Registry.CreateBill(&data); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, BillResponse{Data: data})
}

// GetBill returns a bill template by its ID.
func (co Controller) GetBill(c *gin.Context) {
	id, err := httputil.ParseID(c, "billId")
	if err != nil {
		return
	}

	bill, err := co.Registry.Bill(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, BillResponse{Data: bill})
}

// UpdateBill updates a bill template. Only values to be updated need to
// be specified.
func (co Controller) UpdateBill(c *gin.Context) {
	id, err := httputil.ParseID(c, "billId")
	if err != nil {
		return
	}

	bill, err := co.Registry.Bill(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if err := httputil.BindData(c, &bill); err != nil {
		return
	}
	bill.ID = id

	if err := co.Registry.SaveBill(bill); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, BillResponse{Data: bill})
}

// DeleteBill deletes a bill template. Months already materialized from
// it keep their instances.
func (co Controller) DeleteBill(c *gin.Context) {
	id, err := httputil.ParseID(c, "billId")
	if err != nil {
		return
	}

	if err := co.Registry.DeleteBill(id); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
