package service

import (
	"context"
	"testing"

	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

type capturingLogger struct {
	logger.ILogger
	messages []string
	details  []map[string]interface{}
}

func (l *capturingLogger) Info(module, message string, details map[string]interface{}) {
	l.messages = append(l.messages, message)
	l.details = append(l.details, details)
}

func TestActivityService_LogsEvents(t *testing.T) {
	log := &capturingLogger{ILogger: logger.NewNopLogger()}
	s := NewActivityService(nil, log)

	err := s.handleEvent(context.Background(), events.SessionDeleted("s1"))
	assert.NoError(t, err)

	assert.Equal(t, []string{events.TypeSessionDeleted}, log.messages)
	assert.Equal(t, "s1", log.details[0]["session_id"])
	assert.Contains(t, log.details[0], "occurred_at")
}
