package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	usersvc "velostore/internal/service/user"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	ExpiresIn int    `json:"expiresIn"`
}

func signupHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in usersvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := users.Signup(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, usersvc.ErrEmailTaken) {
				respondError(c, http.StatusConflict, err.Error())
				return
			}
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondOK(c, http.StatusCreated, gin.H{"user": created})
	}
}

func loginHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			respondError(c, http.StatusBadRequest, "email and password required")
			return
		}
		u, token, err := users.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			if errors.Is(err, usersvc.ErrInvalidCredentials) {
				respondError(c, http.StatusUnauthorized, "invalid email or password")
				return
			}
			respondError(c, http.StatusInternalServerError, "internal error")
			return
		}
		respondOK(c, http.StatusOK, sessionResponse{
			Token:     token,
			Role:      u.Role,
			Email:     u.Email,
			ExpiresIn: users.AccessTTLSeconds(),
		})
	}
}

func logoutHandler(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if err := users.Logout(c.Request.Context(), token); err != nil {
			respondError(c, http.StatusInternalServerError, "internal error")
			return
		}
		respondOK(c, http.StatusOK, nil)
	}
}
