package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeledger/backend/internal/httputil"
	"github.com/homeledger/backend/internal/ledger"
	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

type MonthListResponse struct {
	Data []types.Month `json:"data"`
}

type MonthResponse struct {
	Data models.MonthLedger `json:"data"`
}

type LeftoverResponse struct {
	Data ledger.Leftover `json:"data"`
}

// RegisterMonthRoutes registers the routes for months with the
// RouterGroup that is passed.
func (co Controller) RegisterMonthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetMonths)
	r.POST("", co.CreateMonth)

	r.OPTIONS("/:month", httputil.OptionsGetDelete)
	r.GET("/:month", co.GetMonth)
	r.DELETE("/:month", co.DeleteMonth)

	r.PATCH("/:month/read-only", co.SetMonthReadOnly)
	r.POST("/:month/sync", co.SyncMonth)
	r.POST("/:month/sync-metadata", co.SyncMonthMetadata)
	r.GET("/:month/leftover", co.GetLeftover)
	r.PUT("/:month/balances/:sourceId", co.SetBankBalance)
	r.PUT("/:month/savings/:sourceId", co.SetSavings)

	co.RegisterOccurrenceRoutes(r.Group("/:month/instances"))
	co.RegisterPayoffRoutes(r.Group("/:month/payoff"))
}

// parseMonth parses the month path parameter.
func parseMonth(c *gin.Context) (types.Month, error) {
	month, err := types.ParseMonth(c.Param("month"))
	if err != nil {
		httputil.NewError(c, http.StatusBadRequest, models.ErrMonthInvalid)
		return types.Month{}, err
	}

	return month, nil
}

// GetMonths lists all stored months.
func (co Controller) GetMonths(c *gin.Context) {
	months, err := co.Ledger.Months()
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthListResponse{Data: months})
}

// CreateMonth materializes all active templates into a new month.
func (co Controller) CreateMonth(c *gin.Context) {
	var data struct {
		Month types.Month `json:"month" example:"2025-08"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	month, err := co.Ledger.CreateMonth(data.Month)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, MonthResponse{Data: month})
}

// GetMonth returns the month view with claim-derived entries projected
// in.
func (co Controller) GetMonth(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		return
	}

	data, err := co.Ledger.Month(month)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: data})
}

// DeleteMonth deletes a month document.
func (co Controller) DeleteMonth(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		return
	}

	if err := co.Ledger.DeleteMonth(month); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetMonthReadOnly locks or unlocks a month.
func (co Controller) SetMonthReadOnly(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		return
	}

	var data struct {
		ReadOnly bool `json:"readOnly" example:"true"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	updated, err := co.Ledger.SetReadOnly(month, data.ReadOnly)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: updated})
}

// SyncMonth adds instances for templates created after the month was.
func (co Controller) SyncMonth(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		return
	}

	updated, err := co.Ledger.SyncMonth(month)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: updated})
}

// SyncMonthMetadata refreshes the template metadata snapshots of the
// month's instances.
func (co Controller) SyncMonthMetadata(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		return
	}

	updated, err := co.Ledger.SyncMetadata(month)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: updated})
}

// GetLeftover returns the projected end-of-month cash position.
func (co Controller) GetLeftover(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		return
	}

	leftover, err := co.Ledger.CalculateLeftover(month)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, LeftoverResponse{Data: leftover})
}

// SetBankBalance records a payment source's balance snapshot for the
// month.
func (co Controller) SetBankBalance(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		return
	}

	sourceID, err := httputil.ParseID(c, "sourceId")
	if err != nil {
		return
	}

	var data struct {
		Balance models.Amount `json:"balance" example:"5000.00"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	updated, err := co.Ledger.SetBankBalance(month, sourceID, data.Balance)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: updated})
}

// SetSavings records a source's savings balances for the month.
func (co Controller) SetSavings(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		return
	}

	sourceID, err := httputil.ParseID(c, "sourceId")
	if err != nil {
		return
	}

	var data models.SavingsBalance
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	updated, err := co.Ledger.SetSavings(month, sourceID, data)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: updated})
}
