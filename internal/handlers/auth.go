package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	handlerLog := log.With("handler", "AuthHandler")
	return &AuthHandler{log: handlerLog, authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	user, err := ah.authService.RegisterUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			RespondError(c, http.StatusBadRequest, "missing_fields", "email and password are required")
		case errors.Is(err, services.ErrEmailTaken):
			RespondError(c, http.StatusBadRequest, "email_taken", "email already registered")
		default:
			ah.log.Error("Registration failed", "error", err)
			RespondError(c, http.StatusInternalServerError, "internal", "something went wrong")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	token, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields):
			RespondError(c, http.StatusBadRequest, "missing_fields", "email and password are required")
		case errors.Is(err, services.ErrInvalidCredentials):
			RespondError(c, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		default:
			ah.log.Error("Login failed", "error", err)
			RespondError(c, http.StatusInternalServerError, "internal", "something went wrong")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
