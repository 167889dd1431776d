package handler

import (
	"net/http"

	"groop/internal/auth"
	"groop/internal/errs"
	"groop/internal/middleware"
	"groop/internal/model"
	"groop/internal/repository"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	repo repository.UserRepositoryInterface
}

func NewUserHandler(repo repository.UserRepositoryInterface) *UserHandler {
	return &UserHandler{repo: repo}
}

type RegisterRequest struct {
	Fullname *string `json:"fullname"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
}

type UpdateUserRequest struct {
	Fullname      *string `json:"fullname"`
	Email         *string `json:"email"`
	Notifications *bool   `json:"notifications"`
	Password      *string `json:"password"`
}

type UserResponse struct {
	ID            int64  `json:"id"`
	Fullname      string `json:"fullname"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Notifications bool   `json:"notifications"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Fullname:      sanitize(u.Fullname),
		Username:      sanitize(u.Username),
		Email:         sanitize(u.Email),
		Notifications: u.Notifications,
	}
}

// Register creates an account
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "New user"
// @Success 201 {object} UserResponse
// @Failure 400 {object} map[string]string
// @Router /api/users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	for _, field := range []struct {
		name  string
		value *string
	}{
		{"fullname", req.Fullname},
		{"username", req.Username},
		{"password", req.Password},
		{"email", req.Email},
	} {
		if field.value == nil || *field.value == "" {
			fail(c, errs.MissingField(field.name))
			return
		}
	}

	if err := auth.ValidatePassword(*req.Password); err != nil {
		fail(c, errs.NewBadRequestError(err.Error()))
		return
	}
	if err := auth.ValidateEmail(*req.Email); err != nil {
		fail(c, errs.NewBadRequestError(err.Error()))
		return
	}

	ctx := c.Request.Context()
	existing, err := h.repo.FindByUsername(ctx, *req.Username)
	if err != nil {
		fail(c, err)
		return
	}
	if existing != nil {
		fail(c, errs.NewBadRequestError("Username already taken"))
		return
	}

	existing, err = h.repo.FindByEmail(ctx, *req.Email)
	if err != nil {
		fail(c, err)
		return
	}
	if existing != nil {
		fail(c, errs.NewBadRequestError("Email is already being used"))
		return
	}

	hash, err := auth.HashPassword(*req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	user := &model.User{
		Username:      *req.Username,
		Password:      hash,
		Fullname:      *req.Fullname,
		Email:         *req.Email,
		Notifications: true,
	}
	if err := h.repo.Create(ctx, user); err != nil {
		fail(c, err)
		return
	}

	created(c, user.ID, newUserResponse(user))
}

// Me returns the authenticated user
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Router /api/users [get]
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, newUserResponse(middleware.CurrentUser(c)))
}

// Update edits the authenticated user's profile
// @Summary Update current user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateUserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string
// @Router /api/users [patch]
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Fullname == nil && req.Email == nil && req.Notifications == nil && req.Password == nil {
		fail(c, errs.NewBadRequestError("Request must include at least one of: fullname, email, notifications, password"))
		return
	}

	current := middleware.CurrentUser(c)
	user := *current
	ctx := c.Request.Context()

	if req.Fullname != nil {
		if *req.Fullname == "" {
			fail(c, errs.MissingField("fullname"))
			return
		}
		user.Fullname = *req.Fullname
	}

	if req.Email != nil && *req.Email != current.Email {
		if err := auth.ValidateEmail(*req.Email); err != nil {
			fail(c, errs.NewBadRequestError(err.Error()))
			return
		}
		existing, err := h.repo.FindByEmail(ctx, *req.Email)
		if err != nil {
			fail(c, err)
			return
		}
		if existing != nil && existing.ID != current.ID {
			fail(c, errs.NewBadRequestError("Email is already being used"))
			return
		}
		user.Email = *req.Email
	}

	if req.Notifications != nil {
		user.Notifications = *req.Notifications
	}

	if req.Password != nil {
		if err := auth.ValidatePassword(*req.Password); err != nil {
			fail(c, errs.NewBadRequestError(err.Error()))
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			fail(c, err)
			return
		}
		user.Password = hash
	}

	if err := h.repo.Update(ctx, &user); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(&user))
}
