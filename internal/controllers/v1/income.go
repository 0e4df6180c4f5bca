package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeledger/backend/internal/httputil"
	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/registry"
)

type IncomeListResponse struct {
	Data []models.Income `json:"data"`
}

type IncomeResponse struct {
	Data models.Income `json:"data"`
}

// RegisterIncomeRoutes registers the routes for income templates with
// the RouterGroup that is passed.
func (co Controller) RegisterIncomeRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetIncomes)
	r.POST("", co.CreateIncome)

	r.OPTIONS("/:incomeId", httputil.OptionsGetPatchDelete)
	r.GET("/:incomeId", co.GetIncome)
	r.PATCH("/:incomeId", co.UpdateIncome)
	r.DELETE("/:incomeId", co.DeleteIncome)
}

// GetIncomes returns all income templates.
func (co Controller) GetIncomes(c *gin.Context) {
	incomes, err := co.Registry.Incomes()
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	search := c.Query("search")
	activeOnly := c.Query("active") == "true"

	filtered := make([]models.Income, 0, len(incomes))
	for _, income := range incomes {
		if activeOnly && !income.Active {
			continue
		}
		if !registry.MatchesSearch(search, income.Name) {
			continue
		}
		filtered = append(filtered, income)
	}

	c.JSON(http.StatusOK, IncomeListResponse{Data: filtered})
}

// CreateIncome creates a new income template.
func (co Controller) CreateIncome(c *gin.Context) {
	var data models.Income
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	if err := co.Registry.CreateIncome(&data); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, IncomeResponse{Data: data})
}

// GetIncome returns an income template by its ID.
func (co Controller) GetIncome(c *gin.Context) {
	id, err := httputil.ParseID(c, "incomeId")
	if err != nil {
		return
	}

	income, err := co.Registry.Income(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, IncomeResponse{Data: income})
}

// UpdateIncome updates an income template.
func (co Controller) UpdateIncome(c *gin.Context) {
	id, err := httputil.ParseID(c, "incomeId")
	if err != nil {
		return
	}

	income, err := co.Registry.Income(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	if err := httputil.BindData(c, &income); err != nil {
		return
	}
	income.ID = id

	if err := co.Registry.SaveIncome(income); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, IncomeResponse{Data: income})
}

// DeleteIncome deletes an income template.
func (co Controller) DeleteIncome(c *gin.Context) {
	id, err := httputil.ParseID(c, "incomeId")
	if err != nil {
		return
	}

	if err := co.Registry.DeleteIncome(id); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
