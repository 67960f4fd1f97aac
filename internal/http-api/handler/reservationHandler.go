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

type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.ListOwn)
	rg.POST("/", h.Reserve)
	rg.DELETE("/:reservation_id", h.Cancel)

	rg.GET("/book/:book_id", middleware.RequireAdmin(), h.ListForBook)
}

func (h *ReservationHandler) Reserve(c *gin.Context) {
	var in dto.ReserveRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	res, err := h.svc.Reserve(ctx, c.GetString("userID"), in.BookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrBookAvailable):
			c.JSON(http.StatusConflict, gin.H{"error": "book is in stock, borrow it instead"})
		case errors.Is(err, service.ErrAlreadyReserved):
			c.JSON(http.StatusConflict, gin.H{"error": "you already have an open reservation for this book"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.FromReservationModel(*res))
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("reservation_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Cancel(ctx, c.GetString("userID"), id); err != nil {
		switch {
		case errors.Is(err, service.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "this reservation belongs to another user"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ReservationHandler) ListOwn(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.ListOwn(ctx, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.ReservationResponse, 0, len(list))
	for _, r := range list {
		resp = append(resp, dto.FromReservationModel(r))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListForBook exposes the pending queue for a book so staff can see who is
// next in line.
func (h *ReservationHandler) ListForBook(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.ListForBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.ReservationResponse, 0, len(list))
	for _, r := range list {
		resp = append(resp, dto.FromReservationModel(r))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
