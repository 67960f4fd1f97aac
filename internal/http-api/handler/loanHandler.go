package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/middleware"
	"libraryhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type LoanHandler struct {
	svc     service.LoanService
	overdue service.OverdueService
}

func NewLoanHandler(svc service.LoanService, overdue service.OverdueService) *LoanHandler {
	return &LoanHandler{svc: svc, overdue: overdue}
}

func (h *LoanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/", h.Borrow)
	rg.POST("/:loan_id/return", h.Return)
	rg.GET("/", h.MyLoans)
	rg.GET("/history", h.MyHistory)
	rg.GET("/due-soon", h.DueSoon)

	rg.GET("/all", middleware.RequireAdmin(), h.AllUnreturned)
}

func (h *LoanHandler) Borrow(c *gin.Context) {
	var in dto.BorrowRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	userID := c.GetString("userID")
	loan, err := h.svc.Borrow(ctx, userID, in.BookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": "book is out of stock"})
		case errors.Is(err, service.ErrAlreadyBorrowed):
			c.JSON(http.StatusConflict, gin.H{"error": "you already have this book on loan"})
		case errors.Is(err, service.ErrHasOverdueLoans):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "return your overdue loans before borrowing"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.FromLoanModel(*loan, time.Now()))
}

func (h *LoanHandler) Return(c *gin.Context) {
	loanID, err := strconv.ParseInt(c.Param("loan_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	userID := c.GetString("userID")
	isAdmin := c.GetString("role") == "admin"

	loan, err := h.svc.Return(ctx, userID, loanID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "loan not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "this loan belongs to another user"})
		case errors.Is(err, service.ErrAlreadyReturned):
			c.JSON(http.StatusConflict, gin.H{"error": "loan already returned"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromLoanModel(*loan, time.Now()))
}

func (h *LoanHandler) MyLoans(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	loans, err := h.svc.MyLoans(ctx, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.FromLoanModels(loans, time.Now())})
}

func (h *LoanHandler) MyHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	loans, err := h.svc.MyHistory(ctx, c.GetString("userID"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.FromLoanModels(loans, time.Now())})
}

func (h *LoanHandler) DueSoon(c *gin.Context) {
	days := 3
	if v := c.Query("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= 30 {
			days = parsed
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	loans, err := h.overdue.DueSoon(ctx, c.GetString("userID"), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.FromLoanModels(loans, time.Now()), "days": days})
}

func (h *LoanHandler) AllUnreturned(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	loans, err := h.svc.AllUnreturned(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// optional ?status=active|overdue filter, derived from the clock
	if status := c.Query("status"); status == "active" || status == "overdue" {
		now := time.Now()
		filtered := loans[:0]
		for _, l := range loans {
			if string(l.StatusAt(now)) == status {
				filtered = append(filtered, l)
			}
		}
		loans = filtered
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.FromLoanModels(loans, time.Now())})
}
