package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	svc               service.StatsService
	overdue           service.OverdueService
	lowStockThreshold int
}

func NewStatsHandler(svc service.StatsService, overdue service.OverdueService, lowStockThreshold int) *StatsHandler {
	return &StatsHandler{svc: svc, overdue: overdue, lowStockThreshold: lowStockThreshold}
}

// RegisterRoutes mounts the admin dashboard endpoints. Callers are expected
// to wrap the group with RequireAdmin.
func (h *StatsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/top-books", h.TopBooks)
	rg.GET("/top-borrowers", h.TopBorrowers)
	rg.GET("/recent-loans", h.RecentLoans)
	rg.GET("/overdue-loans", h.OverdueLoans)
	rg.GET("/low-stock", h.LowStock)
	rg.GET("/out-of-stock", h.OutOfStock)
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.svc.Dashboard(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) TopBooks(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.svc.TopBooks(ctx, h.parseLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *StatsHandler) TopBorrowers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.svc.TopBorrowers(ctx, h.parseLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *StatsHandler) RecentLoans(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	loans, err := h.svc.RecentLoans(ctx, h.parseLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.FromLoanModels(loans, time.Now())})
}

func (h *StatsHandler) OverdueLoans(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	loans, err := h.overdue.ListOverdue(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.FromLoanModels(loans, time.Now()), "count": len(loans)})
}

func (h *StatsHandler) LowStock(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	threshold := h.lowStockThreshold
	if v := c.Query("threshold"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			threshold = parsed
		}
	}

	books, err := h.svc.LowStock(ctx, threshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.BookBasicResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, dto.FromBookModelToBasic(b))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "threshold": threshold})
}

func (h *StatsHandler) OutOfStock(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	books, err := h.svc.OutOfStock(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.BookBasicResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, dto.FromBookModelToBasic(b))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *StatsHandler) parseLimit(c *gin.Context) int {
	limit := 10
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}
	return limit
}
