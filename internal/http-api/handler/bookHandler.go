package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
	"libraryhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	svc service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// Public routes (any authenticated user)
	rg.GET("/", h.List)
	rg.GET("/search", h.Search)
	rg.GET("/:book_id", h.Get)

	// Admin-only routes
	rg.POST("/", middleware.RequireAdmin(), h.Create)
	rg.PUT("/:book_id", middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:book_id", middleware.RequireAdmin(), h.Delete)
}

// RegisterCatalogRoutes exposes the catalog reference data: listings for
// everyone, mutations for admins.
func (h *BookHandler) RegisterCatalogRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.ListCategories)
	rg.GET("/authors", h.ListAuthors)
	rg.GET("/publishers", h.ListPublishers)

	rg.POST("/categories", middleware.RequireAdmin(), h.CreateCategory)
	rg.DELETE("/categories/:category_id", middleware.RequireAdmin(), h.DeleteCategory)
	rg.POST("/authors", middleware.RequireAdmin(), h.CreateAuthor)
	rg.DELETE("/authors/:author_id", middleware.RequireAdmin(), h.DeleteAuthor)
	rg.POST("/publishers", middleware.RequireAdmin(), h.CreatePublisher)
	rg.DELETE("/publishers/:publisher_id", middleware.RequireAdmin(), h.DeletePublisher)
}

func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// Parse pagination parameters
	page := 1
	pageSize := 20

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}

	var filters repository.BookFilters
	if v := c.Query("category_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.CategoryID = &id
		}
	}
	if v := c.Query("author_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.AuthorID = &id
		}
	}
	if v := c.Query("publisher_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.PublisherID = &id
		}
	}
	if v := c.Query("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			filters.Year = &y
		}
	}
	filters.SortBy = strings.TrimSpace(c.Query("sort_by"))
	filters.SortOrder = strings.TrimSpace(c.Query("sort_order"))

	list, total, err := h.svc.GetAll(ctx, filters, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.BookBasicResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, dto.FromBookModelToBasic(b))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": resp,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		},
	})
}

func (h *BookHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	b, err := h.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromBookModel(*b))
}

func (h *BookHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.Search(ctx, q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.BookBasicResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, dto.FromBookModelToBasic(b))
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  resp,
		"total": len(resp),
	})
}

func (h *BookHandler) Create(c *gin.Context) {
	var in dto.CreateBookDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	model := in.ToModel()
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Create(ctx, &model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.svc.GetByID(ctx, model.ID)
	if err != nil {
		c.JSON(http.StatusCreated, dto.FromBookModel(model))
		return
	}
	c.JSON(http.StatusCreated, dto.FromBookModel(*created))
}

func (h *BookHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var in dto.UpdateBookDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var m models.Book
	m.Quantity = -1 // distinguish "not provided" from zero
	in.ApplyTo(&m)

	if err := h.svc.Update(ctx, id, &m); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromBookModel(*updated))
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookHandler) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.ListCategories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *BookHandler) ListAuthors(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.ListAuthors(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *BookHandler) ListPublishers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.ListPublishers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *BookHandler) CreateCategory(c *gin.Context) {
	var in dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	created, err := h.svc.CreateCategory(ctx, in.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("category_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.DeleteCategory(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookHandler) CreateAuthor(c *gin.Context) {
	var in dto.CreateAuthorDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	created, err := h.svc.CreateAuthor(ctx, in.FirstName, in.LastName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookHandler) DeleteAuthor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("author_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.DeleteAuthor(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookHandler) CreatePublisher(c *gin.Context) {
	var in dto.CreatePublisherDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	created, err := h.svc.CreatePublisher(ctx, in.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookHandler) DeletePublisher(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("publisher_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.DeletePublisher(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
