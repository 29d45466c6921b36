package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"velostore/internal/domain"
)

type wishlistService interface {
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)
	Add(ctx context.Context, userID, productID string) (*domain.Wishlist, error)
	Remove(ctx context.Context, userID, productID string) (*domain.Wishlist, error)
}

func getWishlistHandler(wishlists wishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		list, err := wishlists.Get(c.Request.Context(), u.ID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "failed to load wishlist")
			return
		}
		respondOK(c, http.StatusOK, list)
	}
}

func addWishlistItemHandler(wishlists wishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		list, err := wishlists.Add(c.Request.Context(), u.ID, c.Param("productId"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respondError(c, http.StatusNotFound, "product not found")
				return
			}
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondOK(c, http.StatusOK, list)
	}
}

func removeWishlistItemHandler(wishlists wishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		list, err := wishlists.Remove(c.Request.Context(), u.ID, c.Param("productId"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respondError(c, http.StatusNotFound, "item not on wishlist")
				return
			}
			respondError(c, http.StatusInternalServerError, "failed to update wishlist")
			return
		}
		respondOK(c, http.StatusOK, list)
	}
}
