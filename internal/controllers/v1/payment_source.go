package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeledger/backend/internal/httputil"
	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/registry"
)

type PaymentSourceListResponse struct {
	Data []models.PaymentSource `json:"data"`
}

type PaymentSourceResponse struct {
	Data models.PaymentSource `json:"data"`
}

// RegisterPaymentSourceRoutes registers the routes for payment sources
// with the RouterGroup that is passed.
func (co Controller) RegisterPaymentSourceRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetPaymentSources)
	r.POST("", co.CreatePaymentSource)

	r.OPTIONS("/:sourceId", httputil.OptionsGetPatchDelete)
	r.GET("/:sourceId", co.GetPaymentSource)
	r.PATCH("/:sourceId", co.UpdatePaymentSource)
	r.DELETE("/:sourceId", co.DeletePaymentSource)
}

// GetPaymentSources returns all payment sources.
func (co Controller) GetPaymentSources(c *gin.Context) {
	sources, err := co.Registry.PaymentSources()
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	search := c.Query("search")
	hideArchived := c.Query("archived") == "false"

	filtered := make([]models.PaymentSource, 0, len(sources))
	for _, source := range sources {
		if hideArchived && source.Archived {
			continue
		}
		if !registry.MatchesSearch(search, source.Name) {
			continue
		}
		filtered = append(filtered, source)
	}

	c.JSON(http.StatusOK, PaymentSourceListResponse{Data: filtered})
}

// CreatePaymentSource creates a new payment source.
func (co Controller) CreatePaymentSource(c *gin.Context) {
	var data models.PaymentSource
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	if err := co.Registry.CreatePaymentSource(&data); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, PaymentSourceResponse{Data: data})
}

// GetPaymentSource returns a payment source by its ID.
func (co Controller) GetPaymentSource(c *gin.Context) {
	id, err := httputil.ParseID(c, "sourceId")
	if err != nil {
		return
	}

	source, err := co.Registry.PaymentSource(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, PaymentSourceResponse{Data: source})
}

// UpdatePaymentSource updates a payment source.
func (co Controller) UpdatePaymentSource(c *gin.Context) {
	id, err := httputil.ParseID(c, "sourceId")
	if err != nil {
		return
	}

	source, err := co.Registry.PaymentSource(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if err := httputil.BindData(c, &source); err != nil {
		return
	}
	source.ID = id

	if err := co.Registry.SavePaymentSource(source); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, PaymentSourceResponse{Data: source})
}

// DeletePaymentSource deletes a payment source.
func (co Controller) DeletePaymentSource(c *gin.Context) {
	id, err := httputil.ParseID(c, "sourceId")
	if err != nil {
		return
	}

	if err := co.Registry.DeletePaymentSource(id); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
