// Package notify builds the notification emails for group and task events
// and the weekly digest.
package notify

import (
	"context"
	"time"

	"groop/internal/lib/email"
	"groop/internal/model"

	"github.com/rs/zerolog"
)

const dueDateLayout = "Jan 2, 2006, 3:04 PM"

const (
	subjectMemberAdded   = "You've been added to a new group"
	subjectMemberRemoved = "You've been removed from a group"
	subjectTaskAssigned  = "You've been assigned a task"
	subjectTaskCompleted = "A task you created was completed"
	subjectWeeklyDigest  = "Your weekly glance"
)

// Notifier renders event emails and hands them to a dispatcher. Users with
// notifications turned off are skipped.
type Notifier struct {
	dispatcher email.Dispatcher
	location   *time.Location
	logger     zerolog.Logger
}

func NewNotifier(dispatcher email.Dispatcher, location *time.Location, logger zerolog.Logger) *Notifier {
	if location == nil {
		location = time.UTC
	}
	return &Notifier{
		dispatcher: dispatcher,
		location:   location,
		logger:     logger.With().Str("component", "notify").Logger(),
	}
}

func (n *Notifier) MemberAdded(ctx context.Context, member *model.User, group *model.Group, addedBy *model.User) error {
	if !member.Notifications {
		return nil
	}
	return n.send(ctx, member.Email, subjectMemberAdded, email.TemplateMemberAdded, email.MemberAddedData{
		Fullname:  member.Fullname,
		GroupName: group.Name,
		AddedBy:   addedBy.Username,
	})
}

func (n *Notifier) MemberRemoved(ctx context.Context, member *model.User, group *model.Group) error {
	if !member.Notifications {
		return nil
	}
	return n.send(ctx, member.Email, subjectMemberRemoved, email.TemplateMemberRemoved, email.MemberRemovedData{
		Fullname:  member.Fullname,
		GroupName: group.Name,
	})
}

func (n *Notifier) TaskAssigned(ctx context.Context, assignee *model.User, task *model.Task, group *model.Group, assignedBy *model.User) error {
	if !assignee.Notifications {
		return nil
	}
	return n.send(ctx, assignee.Email, subjectTaskAssigned, email.TemplateTaskAssigned, email.TaskAssignedData{
		Fullname:    assignee.Fullname,
		TaskName:    task.Name,
		Description: task.Description,
		GroupName:   group.Name,
		Priority:    model.PriorityLabel(task.Priority),
		DateDue:     n.formatDue(task.DateDue),
		AssignedBy:  assignedBy.Username,
	})
}

func (n *Notifier) TaskCompleted(ctx context.Context, creator *model.User, task *model.Task, group *model.Group, completedBy *model.User) error {
	if !creator.Notifications {
		return nil
	}
	return n.send(ctx, creator.Email, subjectTaskCompleted, email.TemplateTaskCompleted, email.TaskCompletedData{
		Fullname:    creator.Fullname,
		TaskName:    task.Name,
		GroupName:   group.Name,
		CompletedBy: completedBy.Username,
	})
}

func (n *Notifier) send(ctx context.Context, to, subject string, tmpl email.Template, data any) error {
	msg, err := email.NewMessage(to, subject, tmpl, data)
	if err != nil {
		return err
	}
	return n.dispatcher.Dispatch(ctx, msg)
}

func (n *Notifier) formatDue(t time.Time) string {
	return t.In(n.location).Format(dueDateLayout)
}
