package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/homeledger/backend/internal/httputil"
	"github.com/homeledger/backend/internal/ledger"
	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/types"
)

// RegisterOccurrenceRoutes registers the instance and occurrence routes
// below /months/:month/instances.
func (co Controller) RegisterOccurrenceRoutes(r *gin.RouterGroup) {
	r.POST("/:type", co.CreateAdhocInstance)
	r.POST("/:type/:instanceId/reset", co.ResetInstance)
	r.POST("/:type/:instanceId/occurrences", co.AddAdhocOccurrence)

	r.PATCH("/:type/:instanceId/occurrences/:occurrenceId", co.UpdateOccurrence)
	r.DELETE("/:type/:instanceId/occurrences/:occurrenceId", co.RemoveOccurrence)
	r.POST("/:type/:instanceId/occurrences/:occurrenceId/close", co.CloseOccurrence)
	r.POST("/:type/:instanceId/occurrences/:occurrenceId/reopen", co.ReopenOccurrence)
	r.POST("/:type/:instanceId/occurrences/:occurrenceId/split", co.SplitOccurrence)
}

// parseKind parses the instance type path parameter, bill or income.
func parseKind(c *gin.Context) (models.InstanceKind, error) {
	kind := models.InstanceKind(c.Param("type"))
	if !kind.Valid() {
		httputil.NewError(c, http.StatusBadRequest, models.ErrInstanceNotFound)
		return kind, models.ErrInstanceNotFound
	}

	return kind, nil
}

// parseRef resolves the full occurrence ref from the path.
func parseRef(c *gin.Context) (ledger.OccurrenceRef, error) {
	month, err := parseMonth(c)
	if err != nil {
		return ledger.OccurrenceRef{}, err
	}

	kind, err := parseKind(c)
	if err != nil {
		return ledger.OccurrenceRef{}, err
	}

	instanceID, err := httputil.ParseID(c, "instanceId")
	if err != nil {
		return ledger.OccurrenceRef{}, err
	}

	occurrenceID, err := httputil.ParseID(c, "occurrenceId")
	if err != nil {
		return ledger.OccurrenceRef{}, err
	}

	return ledger.OccurrenceRef{
		Month:        month,
		Kind:         kind,
		InstanceID:   instanceID,
		OccurrenceID: occurrenceID,
	}, nil
}

// CreateAdhocInstance creates a one-off bill or income for this month.
func (co Controller) CreateAdhocInstance(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		return
	}
	kind, err := parseKind(c)
	if err != nil {
		return
	}

	var data struct {
		Name       string        `json:"name" example:"Car repair"`
		CategoryID uuid.UUID     `json:"categoryId"`
		Date       types.Date    `json:"date" example:"2025-08-09"`
		Amount     models.Amount `json:"amount" example:"420.00"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	updated, err := co.Ledger.CreateAdhocInstance(month, kind, data.Name, data.CategoryID, data.Date, data.Amount)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, MonthResponse{Data: updated})
}

// ResetInstance regenerates a template-linked instance, discarding all
// customization.
func (co Controller) ResetInstance(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		return
	}
	kind, err := parseKind(c)
	if err != nil {
		return
	}
	instanceID, err := httputil.ParseID(c, "instanceId")
	if err != nil {
		return
	}

	updated, err := co.Ledger.ResetInstance(month, kind, instanceID)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: updated})
}

// AddAdhocOccurrence appends an occurrence to an instance.
func (co Controller) AddAdhocOccurrence(c *gin.Context) {
	month, err := parseMonth(c)
	if err != nil {
		return
	}
	kind, err := parseKind(c)
	if err != nil {
		return
	}
	instanceID, err := httputil.ParseID(c, "instanceId")
	if err != nil {
		return
	}

	var data struct {
		Date   types.Date    `json:"date" example:"2025-08-25"`
		Amount models.Amount `json:"amount" example:"20.00"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	updated, err := co.Ledger.AddAdhocOccurrence(month, kind, instanceID, data.Date, data.Amount)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, MonthResponse{Data: updated})
}

// UpdateOccurrence patches date, amount or notes of an occurrence.
func (co Controller) UpdateOccurrence(c *gin.Context) {
	ref, err := parseRef(c)
	if err != nil {
		return
	}

	var data struct {
		Date   *types.Date    `json:"date,omitempty"`
		Amount *models.Amount `json:"amount,omitempty"`
		Notes  *string        `json:"notes,omitempty"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	updated, err := co.Ledger.UpdateOccurrence(ref, ledger.OccurrencePatch{
		Date:   data.Date,
		Amount: data.Amount,
		Notes:  data.Notes,
	})
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: updated})
}

// RemoveOccurrence deletes an ad-hoc occurrence.
func (co Controller) RemoveOccurrence(c *gin.Context) {
	ref, err := parseRef(c)
	if err != nil {
		return
	}

	updated, err := co.Ledger.RemoveOccurrence(ref)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: updated})
}

// CloseOccurrence marks an occurrence as paid or received.
func (co Controller) CloseOccurrence(c *gin.Context) {
	ref, err := parseRef(c)
	if err != nil {
		return
	}

	var data struct {
		ClosedDate      *types.Date `json:"closedDate,omitempty"`
		Notes           *string     `json:"notes,omitempty"`
		PaymentSourceID *uuid.UUID  `json:"paymentSourceId,omitempty"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	updated, err := co.Ledger.CloseOccurrence(ref, ledger.CloseOptions{
		ClosedDate:      data.ClosedDate,
		Notes:           data.Notes,
		PaymentSourceID: data.PaymentSourceID,
	})
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: updated})
}

// ReopenOccurrence clears the closed state of an occurrence.
func (co Controller) ReopenOccurrence(c *gin.Context) {
	ref, err := parseRef(c)
	if err != nil {
		return
	}

	updated, err := co.Ledger.ReopenOccurrence(ref)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: updated})
}

// SplitOccurrence records a partial payment.
func (co Controller) SplitOccurrence(c *gin.Context) {
	ref, err := parseRef(c)
	if err != nil {
		return
	}

	var data struct {
		Paid       models.Amount `json:"paid" example:"60.00"`
		ClosedDate *types.Date   `json:"closedDate,omitempty"`
	}
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	closedDate := types.DateOf(time.Now())
	if data.ClosedDate != nil {
		closedDate = *data.ClosedDate
	}

	updated, err := co.Ledger.SplitOccurrence(ref, data.Paid, closedDate)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, MonthResponse{Data: updated})
}
