package handler

import (
	"errors"
	"net/http"

	"groop/internal/errs"
	"groop/internal/middleware"
	"groop/internal/model"
	"groop/internal/repository"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryRepo *repository.CategoryRepository
	memberRepo   *repository.GroupMemberRepository
}

func NewCategoryHandler(categoryRepo *repository.CategoryRepository, memberRepo *repository.GroupMemberRepository) *CategoryHandler {
	return &CategoryHandler{
		categoryRepo: categoryRepo,
		memberRepo:   memberRepo,
	}
}

type CategoryRequest struct {
	CategoryName *string `json:"category_name"`
	GroupID      *jsonID `json:"group_id" swaggertype:"integer"`
}

type CategoryResponse struct {
	ID           int64  `json:"id"`
	CategoryName string `json:"category_name"`
	GroupID      int64  `json:"group_id"`
}

func newCategoryResponse(c *model.TaskCategory) CategoryResponse {
	return CategoryResponse{ID: c.ID, CategoryName: sanitize(c.CategoryName), GroupID: c.GroupID}
}

// Create adds a task category to a group
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CategoryRequest true "Category"
// @Success 201 {object} CategoryResponse
// @Failure 400 {object} map[string]string
// @Router /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CategoryName == nil || *req.CategoryName == "" {
		fail(c, errs.MissingField("category_name"))
		return
	}
	if req.GroupID == nil || *req.GroupID <= 0 {
		fail(c, errs.MissingField("group_id"))
		return
	}

	groupID := int64(*req.GroupID)
	if !h.requireMember(c, groupID) {
		return
	}

	category := &model.TaskCategory{CategoryName: *req.CategoryName, GroupID: groupID}
	if err := h.categoryRepo.Create(c.Request.Context(), category); err != nil {
		fail(c, err)
		return
	}

	created(c, category.ID, newCategoryResponse(category))
}

// ListByGroup returns the categories of a group
// @Summary List group categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param group_id path int true "Group ID"
// @Success 200 {array} CategoryResponse
// @Failure 400 {object} map[string]string
// @Router /api/categories/group/{group_id} [get]
func (h *CategoryHandler) ListByGroup(c *gin.Context) {
	groupID, ok := pathID(c, "group_id", "group")
	if !ok {
		return
	}
	if !h.requireMember(c, groupID) {
		return
	}

	categories, err := h.categoryRepo.ListByGroup(c.Request.Context(), groupID)
	if err != nil {
		fail(c, err)
		return
	}

	resp := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, newCategoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns one category
// @Summary Get category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param category_id path int true "Category ID"
// @Success 200 {object} CategoryResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/categories/{category_id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	category, ok := h.loadCategory(c)
	if !ok {
		return
	}
	if !h.requireMember(c, category.GroupID) {
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(category))
}

// Update renames a category
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category_id path int true "Category ID"
// @Param body body CategoryRequest true "New name and the category's group"
// @Success 200 {object} CategoryResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/categories/{category_id} [patch]
func (h *CategoryHandler) Update(c *gin.Context) {
	category, ok := h.loadCategory(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.GroupID == nil || *req.GroupID <= 0 {
		fail(c, errs.NewBadRequestError("Group ID missing"))
		return
	}

	groupID := int64(*req.GroupID)
	if !h.requireMember(c, groupID) {
		return
	}
	if req.CategoryName == nil || *req.CategoryName == "" {
		fail(c, errs.NewBadRequestError("Request must include new category name"))
		return
	}
	if category.GroupID != groupID {
		fail(c, errNotValidRequest)
		return
	}

	category.CategoryName = *req.CategoryName
	if err := h.categoryRepo.Update(c.Request.Context(), category); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			fail(c, errCategoryNotFound)
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newCategoryResponse(category))
}

// Delete removes a category; tasks in it become uncategorized
// @Summary Delete category
// @Tags categories
// @Security BearerAuth
// @Param category_id path int true "Category ID"
// @Param group_id path int true "Group ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/categories/{category_id}/{group_id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, ok := pathID(c, "category_id", "category")
	if !ok {
		return
	}
	groupID, ok := pathID(c, "group_id", "group")
	if !ok {
		return
	}
	if !h.requireMember(c, groupID) {
		return
	}

	category, ok := h.loadCategoryByID(c, categoryID)
	if !ok {
		return
	}
	if category.GroupID != groupID {
		fail(c, errNotValidRequest)
		return
	}

	if err := h.categoryRepo.Delete(c.Request.Context(), categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			fail(c, errCategoryNotFound)
			return
		}
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) loadCategory(c *gin.Context) (*model.TaskCategory, bool) {
	categoryID, ok := pathID(c, "category_id", "category")
	if !ok {
		return nil, false
	}
	return h.loadCategoryByID(c, categoryID)
}

func (h *CategoryHandler) loadCategoryByID(c *gin.Context, categoryID int64) (*model.TaskCategory, bool) {
	category, err := h.categoryRepo.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			fail(c, errCategoryNotFound)
			return nil, false
		}
		fail(c, err)
		return nil, false
	}
	return category, true
}

func (h *CategoryHandler) requireMember(c *gin.Context, groupID int64) bool {
	isMember, err := h.memberRepo.IsMember(c.Request.Context(), groupID, middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err)
		return false
	}
	if !isMember {
		fail(c, errNotValidRequest)
		return false
	}
	return true
}
