package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"groop/internal/lib/email"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func TestNewSendEmailTask(t *testing.T) {
	msg := email.Message{To: "bob@example.com", Subject: "Your weekly glance", HTML: "<p>hi</p>"}

	task, err := NewSendEmailTask(msg)

	require.NoError(t, err)
	assert.Equal(t, TaskSendEmail, task.Type())
	var decoded email.Message
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, msg, decoded)
}

func TestHandleSendEmailTask(t *testing.T) {
	sender := new(mockSender)
	msg := email.Message{To: "bob@example.com", Subject: "hi"}
	sender.On("Send", mock.Anything, msg).Return(nil).Once()
	j := &JobService{sender: sender, logger: zerolog.Nop()}

	task, err := NewSendEmailTask(msg)
	require.NoError(t, err)

	assert.NoError(t, j.handleSendEmailTask(context.Background(), task))
	sender.AssertExpectations(t)
}

func TestHandleSendEmailTask_SendFailureIsRetried(t *testing.T) {
	sender := new(mockSender)
	msg := email.Message{To: "bob@example.com"}
	sender.On("Send", mock.Anything, msg).Return(assert.AnError).Once()
	j := &JobService{sender: sender, logger: zerolog.Nop()}

	task, err := NewSendEmailTask(msg)
	require.NoError(t, err)

	err = j.handleSendEmailTask(context.Background(), task)
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleSendEmailTask_BadPayload(t *testing.T) {
	j := &JobService{sender: new(mockSender), logger: zerolog.Nop()}

	err := j.handleSendEmailTask(context.Background(), asynq.NewTask(TaskSendEmail, []byte("{")))

	assert.ErrorIs(t, err, asynq.SkipRetry)
}
