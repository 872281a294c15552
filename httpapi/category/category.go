// categoryservice provides the category management API.
package categoryservice

import (
	"errors"
	"net/http"
	"strings"

	"github.com/algebra-practice/backend/httpapi"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/gin-gonic/gin"
)

type CategoryService struct {
	store *store.Store
}

func NewCategoryService(st *store.Store) *CategoryService {
	return &CategoryService{store: st}
}

func (s *CategoryService) Register(router gin.IRouter) {
	categories := router.Group("/categories")

	categories.GET("", s.ListCategories)
	categories.POST("", s.CreateCategory)
	categories.PUT("/:id", s.UpdateCategory)
	categories.DELETE("/:id", s.DeleteCategory)
}

// CategoryRequest is the body of POST /categories and PUT /categories/:id.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r CategoryRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}

	return nil
}

// ListCategories returns every category with its question count.
// GET /api/categories
func (s *CategoryService) ListCategories(c *gin.Context) {
	categories, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to list the categories. Please try again later.",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateCategory creates a category.
// POST /api/categories
func (s *CategoryService) CreateCategory(c *gin.Context) {
	req, ok := bindCategoryRequest(c)
	if !ok {
		return
	}

	category, err := s.store.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "The category already exists.",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to create the category. Please try again later.",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames a category. Its questions follow the new name.
// PUT /api/categories/:id
func (s *CategoryService) UpdateCategory(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	req, ok := bindCategoryRequest(c)
	if !ok {
		return
	}

	category, err := s.store.UpdateCategory(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Category not found.",
			})
		case errors.Is(err, store.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Another category already has this name.",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":  "Failed to update the category. Please try again later.",
				"detail": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category without questions.
// DELETE /api/categories/:id
func (s *CategoryService) DeleteCategory(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	if err := s.store.DeleteCategory(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Category not found.",
			})
		case errors.Is(err, store.ErrCategoryInUse):
			c.JSON(http.StatusConflict, gin.H{
				"error":  "The category still has questions.",
				"detail": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":  "Failed to delete the category. Please try again later.",
				"detail": err.Error(),
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func bindCategoryRequest(c *gin.Context) (CategoryRequest, bool) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid request body.",
			"detail": err.Error(),
		})
		return CategoryRequest{}, false
	}

	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid category.",
			"detail": err.Error(),
		})
		return CategoryRequest{}, false
	}

	return req, true
}

var _ httpapi.Service = (*CategoryService)(nil)
