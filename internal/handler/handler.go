package handler

import (
	"context"
	"html"
	"net/http"
	"path"
	"strconv"

	"groop/internal/errs"
	"groop/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

var (
	errInvalidBody      = errs.NewBadRequestError("Invalid request body")
	errNotValidRequest  = errs.NewBadRequestError("Not a valid request")
	errUnauthorized     = errs.NewUnauthorizedError("Unauthorized request")
	errGroupNotFound    = errs.NewNotFoundError("Group doesn't exist")
	errTaskNotFound     = errs.NewNotFoundError("Task doesn't exist")
	errCategoryNotFound = errs.NewNotFoundError("Category doesn't exist")
	errMemberNotFound   = errs.NewNotFoundError("Member doesn't exist")
)

// Notifier sends the event emails. Handlers log its errors and never fail on them.
type Notifier interface {
	MemberAdded(ctx context.Context, member *model.User, group *model.Group, addedBy *model.User) error
	MemberRemoved(ctx context.Context, member *model.User, group *model.Group) error
	TaskAssigned(ctx context.Context, assignee *model.User, task *model.Task, group *model.Group, assignedBy *model.User) error
	TaskCompleted(ctx context.Context, creator *model.User, task *model.Task, group *model.Group, completedBy *model.User) error
}

var textPolicy = bluemonday.StrictPolicy()

// sanitize strips markup from user-provided text before it is echoed back.
// The policy entity-encodes what is left, so the text is unescaped again;
// JSON encoding takes care of the rest.
func sanitize(s string) string {
	return html.UnescapeString(textPolicy.Sanitize(s))
}

// fail hands err to the error middleware and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, param, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		fail(c, errs.NewBadRequestError("Invalid "+name+" id"))
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body into req, failing the request on malformed input.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fail(c, errInvalidBody)
		return false
	}
	return true
}

func created(c *gin.Context, id int64, body any) {
	c.Header("Location", path.Join(c.Request.URL.Path, strconv.FormatInt(id, 10)))
	c.JSON(http.StatusCreated, body)
}
