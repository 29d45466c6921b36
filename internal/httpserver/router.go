package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"velostore/internal/domain"
	usersvc "velostore/internal/service/user"
)

// Deps carries the services the router dispatches to. Fields are narrow
// interfaces so handler tests can stub them.
type Deps struct {
	CatalogSvc  catalogService
	CartSvc     cartService
	WishlistSvc wishlistService
	UserSvc     userService
}

type userService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
	AccessTTLSeconds() int
}

type userCtxKeyType struct{}

var userCtxKey userCtxKeyType

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.CatalogSvc == nil || deps.CartSvc == nil || deps.WishlistSvc == nil || deps.UserSvc == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestIDMiddleware(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	auth := router.Group("/api/auth")
	{
		auth.POST("/signup", signupHandler(deps.UserSvc))
		auth.POST("/login", loginHandler(deps.UserSvc))
		auth.POST("/logout", logoutHandler(deps.UserSvc))
	}

	users := router.Group("/api/users")
	{
		// Catalog browsing is public; everything touching a user's own
		// collections requires a bearer token.
		users.GET("/products", listProductsHandler(deps.CatalogSvc))
		users.GET("/products/categories", categoriesHandler(deps.CatalogSvc))
		users.GET("/products/:productId", getProductHandler(deps.CatalogSvc))

		authed := users.Group("", authMiddleware(deps.UserSvc))
		authed.GET("/cart", getCartHandler(deps.CartSvc))
		authed.POST("/cart/add", addCartItemHandler(deps.CartSvc))
		authed.PUT("/cart/items/:productId", updateCartItemHandler(deps.CartSvc))
		authed.DELETE("/cart/items/:productId", removeCartItemHandler(deps.CartSvc))
		authed.GET("/wishlist", getWishlistHandler(deps.WishlistSvc))
		authed.POST("/products/:productId", addWishlistItemHandler(deps.WishlistSvc))
		authed.DELETE("/products/:productId", removeWishlistItemHandler(deps.WishlistSvc))
	}

	return router, nil
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// authMiddleware resolves the bearer token to a user and stores it on the
// request context. Missing or invalid tokens end the request with 401.
func authMiddleware(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		u, err := users.LookupByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, usersvc.ErrInvalidToken) {
				respondError(c, http.StatusUnauthorized, "invalid or expired token")
			} else {
				respondError(c, http.StatusInternalServerError, "internal error")
			}
			c.Abort()
			return
		}
		ctx := context.WithValue(c.Request.Context(), userCtxKey, u)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func currentUser(c *gin.Context) (*domain.User, bool) {
	u, ok := c.Request.Context().Value(userCtxKey).(*domain.User)
	return u, ok
}
