package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"libraryhub/internal/http-api/dto"
	"libraryhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type WishlistHandler struct {
	svc service.WishlistService
}

func NewWishlistHandler(svc service.WishlistService) *WishlistHandler {
	return &WishlistHandler{svc: svc}
}

func (h *WishlistHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.POST("/", h.Add)
	rg.DELETE("/:book_id", h.Remove)
}

func (h *WishlistHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.svc.List(ctx, c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.WishlistEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.FromWishlistModel(e))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *WishlistHandler) Add(c *gin.Context) {
	var in dto.AddWishlistRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Add(ctx, c.GetString("userID"), in.BookID); err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrAlreadyInWishlist):
			c.JSON(http.StatusConflict, gin.H{"error": "book already in wishlist"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusCreated)
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Remove(ctx, c.GetString("userID"), bookID); err != nil {
		if errors.Is(err, service.ErrNotInWishlist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not in wishlist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
