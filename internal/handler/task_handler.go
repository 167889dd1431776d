package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"groop/internal/errs"
	"groop/internal/middleware"
	"groop/internal/model"
	"groop/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type TaskHandler struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	groupRepo    *repository.GroupRepository
	memberRepo   *repository.GroupMemberRepository
	userRepo     *repository.UserRepository
	notifier     Notifier
}

func NewTaskHandler(
	taskRepo *repository.TaskRepository,
	categoryRepo *repository.CategoryRepository,
	groupRepo *repository.GroupRepository,
	memberRepo *repository.GroupMemberRepository,
	userRepo *repository.UserRepository,
	notifier Notifier,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		groupRepo:    groupRepo,
		memberRepo:   memberRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

// CreateTaskRequest is the body of POST /api/tasks. Times are RFC 3339.
type CreateTaskRequest struct {
	Name           *string   `json:"name"`
	Description    *string   `json:"description"`
	GroupID        *jsonID   `json:"group_id" swaggertype:"integer"`
	DateDue        *jsonTime `json:"date_due" swaggertype:"string" format:"date-time"`
	CategoryID     *jsonID   `json:"category_id" swaggertype:"integer"`
	Priority       *int      `json:"priority"`
	TimeStart      *jsonTime `json:"time_start" swaggertype:"string" format:"date-time"`
	UserAssignedID *jsonID   `json:"user_assigned_id" swaggertype:"integer"`
}

// UpdateTaskRequest is the body of PATCH /api/tasks/task/{task_id}. An explicit
// null clears user_assigned_id, category_id or time_start.
type UpdateTaskRequest struct {
	Name           *string      `json:"name"`
	Description    *string      `json:"description"`
	DateDue        *jsonTime    `json:"date_due" swaggertype:"string" format:"date-time"`
	TimeStart      nullableTime `json:"time_start" swaggertype:"string" format:"date-time"`
	Completed      *bool        `json:"completed"`
	UserAssignedID nullableID   `json:"user_assigned_id" swaggertype:"integer"`
	CategoryID     nullableID   `json:"category_id" swaggertype:"integer"`
	Priority       *int         `json:"priority"`
}

func (r *UpdateTaskRequest) empty() bool {
	return r.Name == nil && r.Description == nil && r.DateDue == nil && !r.TimeStart.Set &&
		r.Completed == nil && !r.UserAssignedID.Set && !r.CategoryID.Set && r.Priority == nil
}

type TaskResponse struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Completed      bool       `json:"completed"`
	CreatorID      int64      `json:"creator_id"`
	UserAssignedID *int64     `json:"user_assigned_id"`
	GroupID        int64      `json:"group_id"`
	CategoryID     *int64     `json:"category_id"`
	Priority       int        `json:"priority"`
	DateDue        time.Time  `json:"date_due"`
	TimeStart      *time.Time `json:"time_start"`
}

func newTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		Name:           sanitize(t.Name),
		Description:    sanitize(t.Description),
		Completed:      t.Completed,
		CreatorID:      t.CreatorID,
		UserAssignedID: t.UserAssignedID,
		GroupID:        t.GroupID,
		CategoryID:     t.CategoryID,
		Priority:       t.Priority,
		DateDue:        t.DateDue,
		TimeStart:      t.TimeStart,
	}
}

func newTaskResponses(tasks []model.Task) []TaskResponse {
	resp := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, newTaskResponse(&tasks[i]))
	}
	return resp
}

var (
	errInvalidPriority   = errs.NewBadRequestError("Priority must be 1, 2 or 3")
	errForeignCategory   = errs.NewBadRequestError("Category does not belong to the group")
	errAssigneeNotMember = errs.NewBadRequestError("Assigned user is not a member of the group")
	errEmptyTaskUpdate   = errs.NewBadRequestError("Request must include at least one item to edit: name, description, date_due, completed, or user_assigned_id")
)

// ListMine returns the tasks assigned to the authenticated user
// @Summary List my tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TaskResponse
// @Router /api/tasks [get]
func (h *TaskHandler) ListMine(c *gin.Context) {
	tasks, err := h.taskRepo.ListAssignedTo(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

// ListByGroup returns all tasks of a group
// @Summary List group tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param group_id path int true "Group ID"
// @Success 200 {array} TaskResponse
// @Failure 401 {object} map[string]string
// @Router /api/tasks/{group_id} [get]
func (h *TaskHandler) ListByGroup(c *gin.Context) {
	groupID, ok := pathID(c, "group_id", "group")
	if !ok {
		return
	}
	if !h.requireMember(c, groupID, errUnauthorized) {
		return
	}

	tasks, err := h.taskRepo.ListByGroup(c.Request.Context(), groupID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

// Create adds a task to a group; the requester is recorded as its creator
// @Summary Create task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTaskRequest true "Task"
// @Success 201 {object} TaskResponse
// @Failure 400 {object} map[string]string
// @Router /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	switch {
	case req.Name == nil || *req.Name == "":
		fail(c, errs.MissingField("name"))
		return
	case req.Description == nil || *req.Description == "":
		fail(c, errs.MissingField("description"))
		return
	case req.DateDue == nil:
		fail(c, errs.MissingField("date_due"))
		return
	case req.GroupID == nil || *req.GroupID <= 0:
		fail(c, errs.MissingField("group_id"))
		return
	}

	priority := model.PriorityLow
	if req.Priority != nil {
		if !model.ValidPriority(*req.Priority) {
			fail(c, errInvalidPriority)
			return
		}
		priority = *req.Priority
	}

	groupID := int64(*req.GroupID)
	if !h.requireMember(c, groupID, errNotValidRequest) {
		return
	}

	creator := middleware.CurrentUser(c)
	task := &model.Task{
		Name:        *req.Name,
		Description: *req.Description,
		CreatorID:   creator.ID,
		GroupID:     groupID,
		Priority:    priority,
		DateDue:     time.Time(*req.DateDue),
	}
	if req.TimeStart != nil {
		start := time.Time(*req.TimeStart)
		task.TimeStart = &start
	}
	if req.CategoryID != nil {
		categoryID := int64(*req.CategoryID)
		if !h.checkCategory(c, groupID, categoryID) {
			return
		}
		task.CategoryID = &categoryID
	}
	if req.UserAssignedID != nil {
		assigneeID := int64(*req.UserAssignedID)
		if !h.checkAssignee(c, groupID, assigneeID) {
			return
		}
		task.UserAssignedID = &assigneeID
	}

	ctx := c.Request.Context()
	if err := h.taskRepo.Create(ctx, task); err != nil {
		fail(c, err)
		return
	}

	if task.UserAssignedID != nil && *task.UserAssignedID != creator.ID {
		h.notifyAssigned(ctx, task, creator)
	}

	created(c, task.ID, newTaskResponse(task))
}

// Get returns one task
// @Summary Get task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param task_id path int true "Task ID"
// @Success 200 {object} TaskResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/tasks/task/{task_id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	task, ok := h.loadTask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Update edits a task and keeps the affected members' scores current
// @Summary Update task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param task_id path int true "Task ID"
// @Param body body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} TaskResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/tasks/task/{task_id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, ok := pathID(c, "task_id", "task")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.empty() {
		fail(c, errEmptyTaskUpdate)
		return
	}

	task, ok := h.loadTaskByID(c, taskID)
	if !ok {
		return
	}
	prev := *task

	if req.Name != nil {
		if *req.Name == "" {
			fail(c, errs.MissingField("name"))
			return
		}
		task.Name = *req.Name
	}
	if req.Description != nil {
		if *req.Description == "" {
			fail(c, errs.MissingField("description"))
			return
		}
		task.Description = *req.Description
	}
	if req.DateDue != nil {
		task.DateDue = time.Time(*req.DateDue)
	}
	if req.TimeStart.Set {
		task.TimeStart = req.TimeStart.Value
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if req.Priority != nil {
		if !model.ValidPriority(*req.Priority) {
			fail(c, errInvalidPriority)
			return
		}
		task.Priority = *req.Priority
	}
	if req.CategoryID.Set {
		if req.CategoryID.Value != nil && !h.checkCategory(c, task.GroupID, *req.CategoryID.Value) {
			return
		}
		task.CategoryID = req.CategoryID.Value
	}
	if req.UserAssignedID.Set {
		if req.UserAssignedID.Value != nil && !h.checkAssignee(c, task.GroupID, *req.UserAssignedID.Value) {
			return
		}
		task.UserAssignedID = req.UserAssignedID.Value
	}

	ctx := c.Request.Context()
	if err := h.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			fail(c, errTaskNotFound)
			return
		}
		fail(c, err)
		return
	}

	assigneeChanged := !sameID(prev.UserAssignedID, task.UserAssignedID)
	if assigneeChanged || prev.Completed != task.Completed || prev.Priority != task.Priority {
		if err := h.recalculateScores(ctx, task.GroupID, prev.UserAssignedID, task.UserAssignedID); err != nil {
			fail(c, err)
			return
		}
	}

	actor := middleware.CurrentUser(c)
	if assigneeChanged && task.UserAssignedID != nil && *task.UserAssignedID != actor.ID {
		h.notifyAssigned(ctx, task, actor)
	}
	if !prev.Completed && task.Completed && task.CreatorID != actor.ID {
		h.notifyCompleted(ctx, task, actor)
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Delete removes a task
// @Summary Delete task
// @Tags tasks
// @Security BearerAuth
// @Param task_id path int true "Task ID"
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/tasks/task/{task_id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	task, ok := h.loadTask(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.taskRepo.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			fail(c, errTaskNotFound)
			return
		}
		fail(c, err)
		return
	}

	if task.Completed && task.UserAssignedID != nil {
		if _, err := h.memberRepo.RecalculateScore(ctx, task.GroupID, *task.UserAssignedID); err != nil {
			fail(c, err)
			return
		}
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) loadTask(c *gin.Context) (*model.Task, bool) {
	taskID, ok := pathID(c, "task_id", "task")
	if !ok {
		return nil, false
	}
	return h.loadTaskByID(c, taskID)
}

// loadTaskByID fetches the task and checks that the requester belongs to its group.
func (h *TaskHandler) loadTaskByID(c *gin.Context, taskID int64) (*model.Task, bool) {
	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			fail(c, errTaskNotFound)
			return nil, false
		}
		fail(c, err)
		return nil, false
	}
	if !h.requireMember(c, task.GroupID, errUnauthorized) {
		return nil, false
	}
	return task, true
}

func (h *TaskHandler) requireMember(c *gin.Context, groupID int64, denied *errs.HTTPError) bool {
	isMember, err := h.memberRepo.IsMember(c.Request.Context(), groupID, middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err)
		return false
	}
	if !isMember {
		fail(c, denied)
		return false
	}
	return true
}

func (h *TaskHandler) checkCategory(c *gin.Context, groupID, categoryID int64) bool {
	category, err := h.categoryRepo.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			fail(c, errForeignCategory)
			return false
		}
		fail(c, err)
		return false
	}
	if category.GroupID != groupID {
		fail(c, errForeignCategory)
		return false
	}
	return true
}

func (h *TaskHandler) checkAssignee(c *gin.Context, groupID, userID int64) bool {
	isMember, err := h.memberRepo.IsMember(c.Request.Context(), groupID, userID)
	if err != nil {
		fail(c, err)
		return false
	}
	if !isMember {
		fail(c, errAssigneeNotMember)
		return false
	}
	return true
}

func (h *TaskHandler) recalculateScores(ctx context.Context, groupID int64, prev, next *int64) error {
	if prev != nil {
		if _, err := h.memberRepo.RecalculateScore(ctx, groupID, *prev); err != nil {
			return err
		}
	}
	if next != nil && !sameID(prev, next) {
		if _, err := h.memberRepo.RecalculateScore(ctx, groupID, *next); err != nil {
			return err
		}
	}
	return nil
}

func (h *TaskHandler) notifyAssigned(ctx context.Context, task *model.Task, actor *model.User) {
	logger := zerolog.Ctx(ctx)
	assignee, group, err := h.loadRecipient(ctx, *task.UserAssignedID, task.GroupID)
	if err != nil {
		logger.Error().Err(err).Int64("task_id", task.ID).Msg("failed to load task assigned email data")
		return
	}
	if err := h.notifier.TaskAssigned(ctx, assignee, task, group, actor); err != nil {
		logger.Error().Err(err).Int64("task_id", task.ID).Msg("failed to send task assigned email")
	}
}

func (h *TaskHandler) notifyCompleted(ctx context.Context, task *model.Task, actor *model.User) {
	logger := zerolog.Ctx(ctx)
	creator, group, err := h.loadRecipient(ctx, task.CreatorID, task.GroupID)
	if err != nil {
		logger.Error().Err(err).Int64("task_id", task.ID).Msg("failed to load task completed email data")
		return
	}
	if err := h.notifier.TaskCompleted(ctx, creator, task, group, actor); err != nil {
		logger.Error().Err(err).Int64("task_id", task.ID).Msg("failed to send task completed email")
	}
}

func (h *TaskHandler) loadRecipient(ctx context.Context, userID, groupID int64) (*model.User, *model.Group, error) {
	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	group, err := h.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || group == nil {
		return nil, nil, errors.New("recipient or group no longer exists")
	}
	return user, group, nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
