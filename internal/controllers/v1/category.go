package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeledger/backend/internal/httputil"
	"github.com/homeledger/backend/internal/models"
	"github.com/homeledger/backend/internal/registry"
)

type CategoryListResponse struct {
	Data []models.Category `json:"data"`
}

type CategoryResponse struct {
	Data models.Category `json:"data"`
}

// RegisterCategoryRoutes registers the routes for categories with the
// RouterGroup that is passed.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetCategories)
	r.POST("", co.CreateCategory)

	r.OPTIONS("/:categoryId", httputil.OptionsGetPatchDelete)
	r.GET("/:categoryId", co.GetCategory)
	r.PATCH("/:categoryId", co.UpdateCategory)
	r.DELETE("/:categoryId", co.DeleteCategory)
}

// GetCategories returns all categories.
func (co Controller) GetCategories(c *gin.Context) {
	categories, err := co.Registry.Categories()
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	search := c.Query("search")
	hideArchived := c.Query("archived") == "false"

	filtered := make([]models.Category, 0, len(categories))
	for _, category := range categories {
		if hideArchived && category.Archived {
			continue
		}
		if !registry.MatchesSearch(search, category.Name) {
			continue
		}
		filtered = append(filtered, category)
	}

	c.JSON(http.StatusOK, CategoryListResponse{Data: filtered})
}

// CreateCategory creates a new category.
func (co Controller) CreateCategory(c *gin.Context) {
	var data models.Category
	if err := httputil.BindData(c, &data); err != nil {
		return
	}
	data.Builtin = false

	if err := co.Registry.CreateCategory(&data); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusCreated, CategoryResponse{Data: data})
}

// GetCategory returns a category by its ID.
func (co Controller) GetCategory(c *gin.Context) {
	id, err := httputil.ParseID(c, "categoryId")
	if err != nil {
		return
	}

	category, err := co.Registry.Category(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Data: category})
}

// UpdateCategory updates a category.
func (co Controller) UpdateCategory(c *gin.Context) {
	id, err := httputil.ParseID(c, "categoryId")
	if err != nil {
		return
	}

	category, err := co.Registry.Category(id)
	if err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	builtin := category.Builtin
	if err := httputil.BindData(c, &category); err != nil {
		return
	}
	category.ID = id
	category.Builtin = builtin

	if err := co.Registry.SaveCategory(category); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Data: category})
}

// DeleteCategory deletes a category.
func (co Controller) DeleteCategory(c *gin.Context) {
	id, err := httputil.ParseID(c, "categoryId")
	if err != nil {
		return
	}

	if err := co.Registry.DeleteCategory(id); err != nil {
		httputil.ErrorHandler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
