package service

import (
	"context"
	"encoding/json"
	"errors"

	"ojarena/internal/common/mq"
	"ojarena/pkg/utils/logger"

	"go.uber.org/zap"
)

// StatusEventFinal is the event type the judge emits once a run has a verdict.
const StatusEventFinal = "status.final"

// StatusEvent is a judge status notification.
type StatusEvent struct {
	Type      string      `json:"type"`
	Status    RunStatusV1 `json:"status"`
	CreatedAt int64       `json:"created_at"`
}

// RunStatusV1 identifies the run a status event is about.
type RunStatusV1 struct {
	SubmissionID string `json:"submission_id"`
	ContestAlias string `json:"contest_alias"`
	Status       string `json:"status"`
	Verdict      string `json:"verdict"`
}

// StatusEventConsumer refreshes live run lists when the judge finishes a run.
type StatusEventConsumer struct {
	mq   mq.MessageQueue
	runs *RunsService
}

func NewStatusEventConsumer(mqClient mq.MessageQueue, runs *RunsService) *StatusEventConsumer {
	return &StatusEventConsumer{mq: mqClient, runs: runs}
}

// Subscribe registers the consumer on topic and starts consumption.
func (c *StatusEventConsumer) Subscribe(ctx context.Context, topic string, opts *mq.SubscribeOptions) error {
	if c.mq == nil {
		return errors.New("message queue is nil")
	}
	if c.runs == nil {
		return errors.New("runs service is nil")
	}
	if err := c.mq.SubscribeWithOptions(ctx, topic, c.HandleMessage, opts); err != nil {
		return err
	}
	return c.mq.Start()
}

// HandleMessage processes one status event. Malformed or unrelated events
// are dropped so they are not retried.
func (c *StatusEventConsumer) HandleMessage(ctx context.Context, message *mq.Message) error {
	if message == nil {
		return nil
	}
	var event StatusEvent
	if err := json.Unmarshal(message.Body, &event); err != nil {
		logger.Warn(ctx, "parse status event failed", zap.String("message_id", message.ID), zap.Error(err))
		return nil
	}
	if event.Type != StatusEventFinal {
		return nil
	}
	contest := event.Status.ContestAlias
	if contest == "" {
		contest, _ = message.GetHeader("contest")
	}
	if contest == "" {
		logger.Debug(ctx, "status event without contest", zap.String("submission_id", event.Status.SubmissionID))
		return nil
	}
	c.runs.RunsChanged(ctx, contest)
	return nil
}
