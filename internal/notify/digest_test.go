package notify

import (
	"context"
	"testing"
	"time"

	"groop/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDigestJob_Run(t *testing.T) {
	// Arrange
	n, d := newTestNotifier(t)
	users := new(mockUsers)
	tasks := new(mockTasks)
	now := time.Date(2026, 5, 3, 19, 0, 0, 0, time.UTC)
	weekLater := now.Add(7 * 24 * time.Hour)

	users.On("ListWithNotifications", mock.Anything).Return([]model.User{*alice, *bob}, nil)
	tasks.On("ListDueForUser", mock.Anything, alice.ID, now, weekLater).Return([]model.DueTask{
		{ID: 1, Name: "dishes", Description: "after dinner", Priority: model.PriorityLow, DateDue: now.Add(time.Hour), GroupName: "Flatmates"},
		{ID: 2, Name: "report", Description: "quarterly", Priority: model.PriorityHigh, DateDue: now.Add(48 * time.Hour), GroupName: "Work"},
	}, nil)
	tasks.On("ListDueForUser", mock.Anything, bob.ID, now, weekLater).Return([]model.DueTask{}, nil)

	job := NewDigestJob(users, tasks, n, false)
	job.now = func() time.Time { return now }

	// Act
	sent, err := job.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, d.sent, 2)
	assert.Equal(t, "alice@example.com", d.sent[0].To)
	assert.Equal(t, "Your weekly glance", d.sent[0].Subject)
	assert.Contains(t, d.sent[0].HTML, "Hello alice")
	assert.Contains(t, d.sent[0].HTML, "<h4>report</h4>")
	assert.Contains(t, d.sent[0].HTML, "Priority: high")
	assert.Contains(t, d.sent[0].HTML, "Date Due: May 3, 2026, 1:00 PM")
	assert.Equal(t, "bob@example.com", d.sent[1].To)
	assert.Contains(t, d.sent[1].HTML, "Nothing is due this week.")
	users.AssertExpectations(t)
	tasks.AssertExpectations(t)
}

func TestDigestJob_ContinuesAfterFailure(t *testing.T) {
	// Arrange
	n, d := newTestNotifier(t)
	users := new(mockUsers)
	tasks := new(mockTasks)

	users.On("ListWithNotifications", mock.Anything).Return([]model.User{*alice, *bob}, nil)
	tasks.On("ListDueForUser", mock.Anything, alice.ID, mock.Anything, mock.Anything).Return(nil, assert.AnError)
	tasks.On("ListDueForUser", mock.Anything, bob.ID, mock.Anything, mock.Anything).Return([]model.DueTask{
		{Name: "laundry", Priority: model.PriorityMedium, DateDue: time.Now().Add(time.Hour), GroupName: "Flatmates"},
	}, nil)

	// Act
	sent, err := NewDigestJob(users, tasks, n, false).Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, d.sent, 1)
	assert.Equal(t, "bob@example.com", d.sent[0].To)
}

func TestDigestJob_UserListError(t *testing.T) {
	n, _ := newTestNotifier(t)
	users := new(mockUsers)
	users.On("ListWithNotifications", mock.Anything).Return(nil, assert.AnError)

	_, err := NewDigestJob(users, new(mockTasks), n, false).Run(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
}

func TestDigestJob_SkipEmpty(t *testing.T) {
	// Arrange
	n, d := newTestNotifier(t)
	users := new(mockUsers)
	tasks := new(mockTasks)

	users.On("ListWithNotifications", mock.Anything).Return([]model.User{*alice, *bob}, nil)
	tasks.On("ListDueForUser", mock.Anything, alice.ID, mock.Anything, mock.Anything).Return([]model.DueTask{}, nil)
	tasks.On("ListDueForUser", mock.Anything, bob.ID, mock.Anything, mock.Anything).Return([]model.DueTask{
		{Name: "laundry", Priority: model.PriorityMedium, DateDue: time.Now().Add(time.Hour), GroupName: "Flatmates"},
	}, nil)

	// Act
	sent, err := NewDigestJob(users, tasks, n, true).Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, d.sent, 1)
	assert.Equal(t, "bob@example.com", d.sent[0].To)
}
