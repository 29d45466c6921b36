package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"velostore/internal/domain"
)

type cartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Add(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	Update(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, userID, productID string) (*domain.Cart, error)
}

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func getCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		cart, err := carts.Get(c.Request.Context(), u.ID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to load cart")
			return
		}
		respondOK(c, http.StatusOK, cart)
	}
}

func addCartItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		var in addCartItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, http.StatusBadRequest, "productId required")
			return
		}
		if in.Quantity == 0 {
			in.Quantity = 1
		}
		cart, err := carts.Add(c.Request.Context(), u.ID, in.ProductID, in.Quantity)
		if err != nil {
			respondCartError(c, err)
			return
		}
		respondOK(c, http.StatusOK, cart)
	}
}

func updateCartItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		var in updateCartItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, http.StatusBadRequest, "quantity required")
			return
		}
		cart, err := carts.Update(c.Request.Context(), u.ID, c.Param("productId"), in.Quantity)
		if err != nil {
			respondCartError(c, err)
			return
		}
		respondOK(c, http.StatusOK, cart)
	}
}

func removeCartItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		cart, err := carts.Remove(c.Request.Context(), u.ID, c.Param("productId"))
		if err != nil {
			respondCartError(c, err)
			return
		}
		respondOK(c, http.StatusOK, cart)
	}
}

func respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		respondError(c, http.StatusBadRequest, "insufficient stock")
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "item not found")
	default:
		respondError(c, http.StatusBadRequest, err.Error())
	}
}
