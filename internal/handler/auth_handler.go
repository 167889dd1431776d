package handler

import (
	"net/http"

	"groop/internal/auth"
	"groop/internal/errs"
	"groop/internal/middleware"
	"groop/internal/repository"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users  repository.UserRepositoryInterface
	tokens *auth.JWTManager
}

func NewAuthHandler(users repository.UserRepositoryInterface, tokens *auth.JWTManager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type LoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type AuthResponse struct {
	AuthToken string `json:"authToken"`
}

var errBadCredentials = errs.NewBadRequestError("Incorrect username or password")

// Login exchanges credentials for a JWT
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]string
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Username == nil || *req.Username == "" {
		fail(c, errs.MissingField("username"))
		return
	}
	if req.Password == nil || *req.Password == "" {
		fail(c, errs.MissingField("password"))
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), *req.Username)
	if err != nil {
		fail(c, err)
		return
	}
	if user == nil || !auth.ComparePassword(user.Password, *req.Password) {
		fail(c, errBadCredentials)
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{AuthToken: token})
}

// Refresh issues a new token for the authenticated user
// @Summary Refresh token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthResponse
// @Failure 401 {object} map[string]string
// @Router /api/auth/login [put]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := h.tokens.GenerateToken(middleware.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{AuthToken: token})
}
