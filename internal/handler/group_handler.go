package handler

import (
	"net/http"

	"groop/internal/errs"
	"groop/internal/middleware"
	"groop/internal/model"
	"groop/internal/repository"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groupRepo  *repository.GroupRepository
	memberRepo *repository.GroupMemberRepository
}

func NewGroupHandler(groupRepo *repository.GroupRepository, memberRepo *repository.GroupMemberRepository) *GroupHandler {
	return &GroupHandler{
		groupRepo:  groupRepo,
		memberRepo: memberRepo,
	}
}

type CreateGroupRequest struct {
	Name *string `json:"name"`
}

type GroupResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

func newGroupResponse(g *model.Group) GroupResponse {
	return GroupResponse{ID: g.ID, Name: sanitize(g.Name), OwnerID: g.OwnerID}
}

// Create creates a group owned by the authenticated user, who becomes its first member
// @Summary Create group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateGroupRequest true "Group"
// @Success 201 {object} GroupResponse
// @Failure 400 {object} map[string]string
// @Router /api/groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req CreateGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil || *req.Name == "" {
		fail(c, errs.MissingField("name"))
		return
	}

	group := &model.Group{
		Name:    *req.Name,
		OwnerID: middleware.CurrentUser(c).ID,
	}
	if _, err := h.groupRepo.CreateWithOwner(c.Request.Context(), group); err != nil {
		fail(c, err)
		return
	}

	created(c, group.ID, newGroupResponse(group))
}

// Get returns a group to one of its members
// @Summary Get group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param group_id path int true "Group ID"
// @Success 200 {object} GroupResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/groups/{group_id} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	groupID, ok := pathID(c, "group_id", "group")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	group, err := h.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		fail(c, err)
		return
	}
	if group == nil {
		fail(c, errGroupNotFound)
		return
	}

	isMember, err := h.memberRepo.IsMember(ctx, groupID, middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	if !isMember {
		fail(c, errUnauthorized.WithMessage("Unauthorized request. A group can only be retrieved by a member of the group"))
		return
	}

	c.JSON(http.StatusOK, newGroupResponse(group))
}

// Delete removes a group; only its owner may do so
// @Summary Delete group
// @Tags groups
// @Security BearerAuth
// @Param group_id path int true "Group ID"
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/groups/{group_id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, ok := pathID(c, "group_id", "group")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	group, err := h.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		fail(c, err)
		return
	}
	if group == nil {
		fail(c, errGroupNotFound)
		return
	}
	if group.OwnerID != middleware.CurrentUser(c).ID {
		fail(c, errUnauthorized.WithMessage("Unauthorized request. A group can only be deleted by its owner"))
		return
	}

	if err := h.groupRepo.Delete(ctx, groupID); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
