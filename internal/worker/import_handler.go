package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"shopwise-web/internal/models"
	"shopwise-web/internal/service"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// JobRunner executes one background import.
type JobRunner interface {
	RunJob(ctx context.Context, payload models.ImportTaskPayload) error
}

type ImportTaskHandler struct {
	runner JobRunner
	logger *logrus.Logger
}

func NewImportTaskHandler(runner JobRunner, logger *logrus.Logger) *ImportTaskHandler {
	return &ImportTaskHandler{
		runner: runner,
		logger: logger,
	}
}

func (h *ImportTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload models.ImportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.JobCode == "" || payload.Owner == "" || payload.FilePath == "" {
		return fmt.Errorf("incomplete import payload: %w", asynq.SkipRetry)
	}

	log := h.logger.WithFields(logrus.Fields{
		"task":     task.Type(),
		"job_code": payload.JobCode,
		"owner":    payload.Owner,
		"filename": payload.Filename,
	})
	log.Info("Starting import job")

	if err := h.runner.RunJob(ctx, payload); err != nil {
		log.WithField("error", err).Error("Import job failed")
		return err
	}

	log.Info("Import job completed")
	return nil
}

var _ JobRunner = (*service.ImportService)(nil)
