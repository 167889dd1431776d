package notify

import (
	"context"
	"time"

	"groop/internal/lib/email"
	"groop/internal/model"
)

const digestWindow = 7 * 24 * time.Hour

type DigestUsers interface {
	ListWithNotifications(ctx context.Context) ([]model.User, error)
}

type DigestTasks interface {
	ListDueForUser(ctx context.Context, userID int64, from, to time.Time) ([]model.DueTask, error)
}

// DigestJob emails every opted-in user the open tasks due in the coming week.
// With skipEmpty set, users with nothing due get no email.
type DigestJob struct {
	users     DigestUsers
	tasks     DigestTasks
	notifier  *Notifier
	skipEmpty bool
	now       func() time.Time
}

func NewDigestJob(users DigestUsers, tasks DigestTasks, notifier *Notifier, skipEmpty bool) *DigestJob {
	return &DigestJob{
		users:     users,
		tasks:     tasks,
		notifier:  notifier,
		skipEmpty: skipEmpty,
		now:       time.Now,
	}
}

// Run sends the digest and returns how many emails were handed off. A failure
// for one user is logged and does not stop the others.
func (j *DigestJob) Run(ctx context.Context) (int, error) {
	users, err := j.users.ListWithNotifications(ctx)
	if err != nil {
		return 0, err
	}

	from := j.now()
	to := from.Add(digestWindow)
	logger := j.notifier.logger

	sent := 0
	for _, user := range users {
		due, err := j.tasks.ListDueForUser(ctx, user.ID, from, to)
		if err != nil {
			logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to load upcoming tasks")
			continue
		}
		if len(due) == 0 && j.skipEmpty {
			continue
		}

		data := email.WeeklyDigestData{Username: user.Username}
		for _, task := range due {
			data.Tasks = append(data.Tasks, email.DigestTask{
				Name:        task.Name,
				Description: task.Description,
				GroupName:   task.GroupName,
				Priority:    model.PriorityLabel(task.Priority),
				DateDue:     j.notifier.formatDue(task.DateDue),
			})
		}

		if err := j.notifier.send(ctx, user.Email, subjectWeeklyDigest, email.TemplateWeeklyDigest, data); err != nil {
			logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to send weekly digest")
			continue
		}
		sent++
	}

	logger.Info().Int("users", len(users)).Int("sent", sent).Msg("weekly digest finished")
	return sent, nil
}
