package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/homeledger/backend/internal/httputil"
	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

// RegisterPayoffRoutes registers the payoff payment routes below
// /months/:month/payoff.
func (co Controller) RegisterPayoffRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:instanceId/payments", httputil.OptionsPost)
	r.POST("/:instanceId/payments", co.AddPayoffPayment)
}

// AddPayoffPayment records one payment toward a payoff bill. newBalance
// carries the fresh statement balance when new charges arrived since the
// balance was entered.
func (co Controller) AddPayoffPayment(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		return
	}

	instanceID, err := httputil.ParseID(c, "instanceId")
	if err != nil {
		return
	}

	var data struct {
		Payment    models.Amount  `json:"payment" example:"300.00"`
		Date       *types.Date    `json:"date,omitempty"`
		NewBalance *models.Amount `json:"newBalance,omitempty"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	date := types.DateOf(time.Now())
	if data.Date != nil {
		date = *data.Date
	}

	updated, err := co.Ledger.AddPayoffPayment(month, instanceID, data.Payment, date, data.NewBalance)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: updated})
}
