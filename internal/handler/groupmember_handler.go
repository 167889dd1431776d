package handler

import (
	"errors"
	"fmt"
	"net/http"

	"groop/internal/errs"
	"groop/internal/middleware"
	"groop/internal/model"
	"groop/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type GroupMemberHandler struct {
	groupRepo  *repository.GroupRepository
	memberRepo *repository.GroupMemberRepository
	userRepo   *repository.UserRepository
	notifier   Notifier
}

func NewGroupMemberHandler(
	groupRepo *repository.GroupRepository,
	memberRepo *repository.GroupMemberRepository,
	userRepo *repository.UserRepository,
	notifier Notifier,
) *GroupMemberHandler {
	return &GroupMemberHandler{
		groupRepo:  groupRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

type AddMemberRequest struct {
	GroupID  *jsonID `json:"group_id" swaggertype:"integer"`
	Username *string `json:"username"`
}

type UserGroupResponse struct {
	GroupID int64  `json:"group_id"`
	Name    string `json:"name"`
}

type MemberResponse struct {
	ID       int64  `json:"id"`
	GroupID  int64  `json:"group_id"`
	MemberID int64  `json:"member_id"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

type MemberDetailResponse struct {
	ID            int64  `json:"id"`
	MemberID      int64  `json:"member_id"`
	Score         int64  `json:"score"`
	Username      string `json:"username"`
	Fullname      string `json:"fullname"`
	Email         string `json:"email"`
	Notifications bool   `json:"notifications"`
	GroupID       int64  `json:"group_id"`
	Name          string `json:"name"`
}

// ListMine returns the groups of the authenticated user
// @Summary List my groups
// @Tags groupsmembers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserGroupResponse
// @Router /api/groupsmembers [get]
func (h *GroupMemberHandler) ListMine(c *gin.Context) {
	groups, err := h.memberRepo.ListUserGroups(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}

	resp := make([]UserGroupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, UserGroupResponse{GroupID: g.GroupID, Name: sanitize(g.Name)})
	}
	c.JSON(http.StatusOK, resp)
}

// Add puts a user, found by username, into a group the requester belongs to
// @Summary Add member
// @Tags groupsmembers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddMemberRequest true "Membership"
// @Success 201 {object} MemberResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/groupsmembers [post]
func (h *GroupMemberHandler) Add(c *gin.Context) {
	var req AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.GroupID == nil || *req.GroupID <= 0 {
		fail(c, errs.MissingField("group_id"))
		return
	}
	if req.Username == nil || *req.Username == "" {
		fail(c, errs.MissingField("username"))
		return
	}

	ctx := c.Request.Context()
	groupID := int64(*req.GroupID)
	requester := middleware.CurrentUser(c)

	group, err := h.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		fail(c, err)
		return
	}
	if group == nil {
		fail(c, errGroupNotFound)
		return
	}

	isMember, err := h.memberRepo.IsMember(ctx, groupID, requester.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if !isMember {
		fail(c, errNotValidRequest)
		return
	}

	newMember, err := h.userRepo.FindByUsername(ctx, *req.Username)
	if err != nil {
		fail(c, err)
		return
	}
	if newMember == nil {
		fail(c, errs.NewBadRequestError("User doesn't exist"))
		return
	}

	already, err := h.memberRepo.IsMember(ctx, groupID, newMember.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if already {
		fail(c, errs.NewBadRequestError(fmt.Sprintf("user %s is already a member of the group", *req.Username)))
		return
	}

	member := &model.GroupMember{GroupID: groupID, MemberID: newMember.ID}
	if err := h.memberRepo.Add(ctx, member); err != nil {
		fail(c, err)
		return
	}

	if err := h.notifier.MemberAdded(ctx, newMember, group, requester); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("group_id", groupID).Msg("failed to send member added email")
	}

	created(c, member.ID, MemberResponse{
		ID:       member.ID,
		GroupID:  member.GroupID,
		MemberID: member.MemberID,
		Username: sanitize(newMember.Username),
		Score:    member.Score,
	})
}

// List returns the members of a group
// @Summary List group members
// @Tags groupsmembers
// @Produce json
// @Security BearerAuth
// @Param group_id path int true "Group ID"
// @Success 200 {array} MemberDetailResponse
// @Failure 401 {object} map[string]string
// @Router /api/groupsmembers/{group_id} [get]
func (h *GroupMemberHandler) List(c *gin.Context) {
	groupID, ok := pathID(c, "group_id", "group")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	isMember, err := h.memberRepo.IsMember(ctx, groupID, middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	if !isMember {
		fail(c, errUnauthorized)
		return
	}

	members, err := h.memberRepo.ListMembers(ctx, groupID)
	if err != nil {
		fail(c, err)
		return
	}

	resp := make([]MemberDetailResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, MemberDetailResponse{
			ID:            m.ID,
			MemberID:      m.MemberID,
			Score:         m.Score,
			Username:      sanitize(m.Username),
			Fullname:      sanitize(m.Fullname),
			Email:         sanitize(m.Email),
			Notifications: m.Notifications,
			GroupID:       m.GroupID,
			Name:          sanitize(m.Name),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Remove takes a member out of a group. The owner may remove anyone but
// themselves; other members may only remove themselves.
// @Summary Remove member
// @Tags groupsmembers
// @Security BearerAuth
// @Param group_id path int true "Group ID"
// @Param member_id path int true "Member (user) ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/groupsmembers/{group_id}/{member_id} [delete]
func (h *GroupMemberHandler) Remove(c *gin.Context) {
	groupID, ok := pathID(c, "group_id", "group")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "member_id", "member")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	requester := middleware.CurrentUser(c)

	group, err := h.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		fail(c, err)
		return
	}
	if group == nil {
		fail(c, errGroupNotFound)
		return
	}
	if requester.ID != group.OwnerID && requester.ID != memberID {
		fail(c, errUnauthorized)
		return
	}
	if memberID == group.OwnerID {
		fail(c, errs.NewBadRequestError("The group owner cannot be removed"))
		return
	}

	if err := h.memberRepo.Remove(ctx, groupID, memberID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			fail(c, errMemberNotFound)
			return
		}
		fail(c, err)
		return
	}

	removed, err := h.userRepo.GetByID(ctx, memberID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("member_id", memberID).Msg("failed to load removed member")
	} else if removed != nil {
		if err := h.notifier.MemberRemoved(ctx, removed, group); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("group_id", groupID).Msg("failed to send member removed email")
		}
	}

	c.Status(http.StatusNoContent)
}
