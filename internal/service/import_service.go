package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"shopwise-web/internal/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// TaskProductImport is the asynq task type of a background import.
const TaskProductImport = "product:import"

// ImportJobStore persists background import jobs.
type ImportJobStore interface {
	Create(ctx context.Context, job *models.ImportJob) error
	GetByCode(ctx context.Context, code string) (*models.ImportJob, error)
	List(ctx context.Context, owner string, limit, offset int) ([]models.ImportJob, int64, error)
	UpdateStatus(ctx context.Context, code, status, errorMessage string) error
	Complete(ctx context.Context, code string, totalRows int, outcome *models.ImportOutcome) error
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DashboardInvalidator drops cached dashboard data after products change.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, owner string)
}

// ImportService runs uploads through the parser and the import engine, either
// inline or as an asynq task.
type ImportService struct {
	engine     *ImportEngine
	tabular    *TabularService
	tracker    ImportTracker
	jobs       ImportJobStore
	enqueuer   TaskEnqueuer
	dashboard  DashboardInvalidator
	exportPath string
	logger     *logrus.Logger

	finalAttempt func(ctx context.Context) bool
}

type ImportServiceOptions struct {
	Engine     *ImportEngine
	Tabular    *TabularService
	Tracker    ImportTracker
	Jobs       ImportJobStore
	Enqueuer   TaskEnqueuer
	Dashboard  DashboardInvalidator
	ExportPath string
	Logger     *logrus.Logger
}

func NewImportService(opts ImportServiceOptions) *ImportService {
	if opts.Tracker == nil {
		opts.Tracker = NewMemoryImportTracker()
	}
	return &ImportService{
		engine:     opts.Engine,
		tabular:    opts.Tabular,
		tracker:    opts.Tracker,
		jobs:       opts.Jobs,
		enqueuer:   opts.Enqueuer,
		dashboard:  opts.Dashboard,
		exportPath: opts.ExportPath,
		logger:     opts.Logger,

		finalAttempt: lastAsynqAttempt,
	}
}

// lastAsynqAttempt reports whether asynq will not retry the task running in
// ctx. Outside a task it is false.
func lastAsynqAttempt(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return false
	}
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	return ok && retried >= maxRetry
}

// ImportFile imports an upload inline. Parse failures come back as errors
// matching ErrParseFailed or ErrTooManyRows and nothing is written.
func (s *ImportService) ImportFile(ctx context.Context, owner, filename string, r io.Reader) (*models.ImportResponse, error) {
	release, err := s.lock(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := s.tabular.ParseFile(filename, r)
	if err != nil {
		return nil, err
	}

	outcome, err := s.engine.Import(ctx, owner, rows, nil)
	if outcome != nil {
		s.invalidate(ctx, owner)
	}
	if err != nil {
		return nil, err
	}

	resp := &models.ImportResponse{
		ImportOutcome: outcome,
		TotalRows:     len(rows),
		ImportTime:    time.Now(),
	}

	if outcome.Failed > 0 && s.exportPath != "" {
		name, err := s.writeErrorReport(outcome, len(rows))
		if err != nil {
			s.logger.WithFields(logrus.Fields{"owner": owner, "error": err}).Warn("Failed to generate import error report")
		} else {
			resp.ErrorReport = name
		}
	}

	return resp, nil
}

// Enqueue records a job for a stored upload and hands it to the worker.
func (s *ImportService) Enqueue(ctx context.Context, owner, filename, filePath string) (*models.ImportJob, error) {
	if s.enqueuer == nil || s.jobs == nil {
		return nil, ErrAsyncUnavailable
	}

	job := &models.ImportJob{
		JobCode:  uuid.NewString(),
		UserID:   owner,
		Filename: filename,
		FilePath: filePath,
		Status:   models.JobQueued,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create import job: %w", err)
	}
	if err := s.tracker.SetStatus(ctx, job.JobCode, models.JobQueued); err != nil {
		s.logger.WithFields(logrus.Fields{"job_code": job.JobCode, "error": err}).Warn("Failed to store import status")
	}

	payload, err := json.Marshal(models.ImportTaskPayload{
		JobCode:  job.JobCode,
		Owner:    owner,
		FilePath: filePath,
		Filename: filename,
	})
	if err != nil {
		return nil, err
	}

	info, err := s.enqueuer.EnqueueContext(ctx, asynq.NewTask(TaskProductImport, payload), asynq.MaxRetry(3), asynq.Timeout(30*time.Minute))
	if err != nil {
		s.markFailed(ctx, job.JobCode, err)
		return nil, fmt.Errorf("failed to enqueue import: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"owner":    owner,
		"job_code": job.JobCode,
		"task_id":  info.ID,
		"queue":    info.Queue,
	}).Info("Import enqueued")

	return job, nil
}

// RunJob executes a background import. Errors wrapping asynq.SkipRetry are permanent.
func (s *ImportService) RunJob(ctx context.Context, payload models.ImportTaskPayload) error {
	log := s.logger.WithFields(logrus.Fields{"owner": payload.Owner, "job_code": payload.JobCode})

	if s.jobs != nil {
		if job, err := s.jobs.GetByCode(ctx, payload.JobCode); err == nil && job.Status == models.JobCompleted {
			log.Info("Import job already completed, skipping")
			return nil
		}
	}

	release, err := s.lock(ctx, payload.Owner)
	if err != nil {
		if !s.finalAttempt(ctx) {
			return err
		}
		s.markFailed(ctx, payload.JobCode, err)
		s.removeUpload(payload.FilePath)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	defer release()

	s.setStatus(ctx, payload.JobCode, models.JobProcessing)

	file, err := os.Open(payload.FilePath)
	if err != nil {
		s.markFailed(ctx, payload.JobCode, err)
		return fmt.Errorf("failed to open upload: %v: %w", err, asynq.SkipRetry)
	}
	rows, err := s.tabular.ParseFile(payload.Filename, file)
	file.Close()
	if err != nil {
		s.markFailed(ctx, payload.JobCode, err)
		s.removeUpload(payload.FilePath)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	outcome, err := s.engine.Import(ctx, payload.Owner, rows, func(fraction float64) {
		if err := s.tracker.SetProgress(ctx, payload.JobCode, fraction); err != nil {
			log.WithField("error", err).Warn("Failed to store import progress")
		}
	})
	if outcome != nil {
		s.invalidate(ctx, payload.Owner)
	}
	if err != nil {
		s.markFailed(ctx, payload.JobCode, err)
		return err
	}

	if err := s.tracker.SaveOutcome(ctx, payload.JobCode, outcome); err != nil {
		log.WithField("error", err).Warn("Failed to store import outcome")
	}
	if s.jobs != nil {
		if err := s.jobs.Complete(ctx, payload.JobCode, len(rows), outcome); err != nil {
			log.WithField("error", err).Error("Failed to complete import job")
		}
	}
	s.setStatus(ctx, payload.JobCode, models.JobCompleted)
	s.removeUpload(payload.FilePath)

	return nil
}

// Progress returns the state of one of the owner's background imports.
func (s *ImportService) Progress(ctx context.Context, owner, code string) (*models.ImportProgress, error) {
	var job *models.ImportJob
	if s.jobs != nil {
		var err error
		job, err = s.jobs.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if job.UserID != owner {
			return nil, ErrProgressNotFound
		}
	}

	progress, err := s.tracker.GetProgress(ctx, code)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, ErrProgressNotFound) || job == nil {
		return nil, err
	}

	// Tracker keys expired; answer from the job row.
	progress = &models.ImportProgress{JobCode: code, Status: job.Status}
	if job.Status == models.JobCompleted {
		progress.Progress = 100
		progress.Outcome = &models.ImportOutcome{
			Created: job.CreatedRows,
			Updated: job.UpdatedRows,
			Failed:  job.FailedRows,
			Errors:  []string{},
		}
	}
	return progress, nil
}

func (s *ImportService) Jobs(ctx context.Context, owner string, limit, offset int) ([]models.ImportJob, int64, error) {
	if s.jobs == nil {
		return []models.ImportJob{}, 0, nil
	}
	return s.jobs.List(ctx, owner, limit, offset)
}

// ErrorReportPath resolves a generated error report name inside the export directory.
func (s *ImportService) ErrorReportPath(name string) string {
	return filepath.Join(s.exportPath, filepath.Base(name))
}

func (s *ImportService) lock(ctx context.Context, owner string) (func(), error) {
	token, ok, err := s.tracker.AcquireLock(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire import lock: %w", err)
	}
	if !ok {
		return nil, ErrImportInProgress
	}
	return func() {
		if err := s.tracker.ReleaseLock(context.Background(), owner, token); err != nil {
			s.logger.WithFields(logrus.Fields{"owner": owner, "error": err}).Warn("Failed to release import lock")
		}
	}, nil
}

func (s *ImportService) writeErrorReport(outcome *models.ImportOutcome, totalRows int) (string, error) {
	if err := os.MkdirAll(s.exportPath, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("import_errors_%s_%s.xlsx", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	if err := s.tabular.GenerateImportErrorReport(outcome, totalRows, filepath.Join(s.exportPath, name)); err != nil {
		return "", err
	}
	return name, nil
}

func (s *ImportService) setStatus(ctx context.Context, code, status string) {
	if err := s.tracker.SetStatus(ctx, code, status); err != nil {
		s.logger.WithFields(logrus.Fields{"job_code": code, "error": err}).Warn("Failed to store import status")
	}
	if s.jobs != nil && status != models.JobCompleted {
		if err := s.jobs.UpdateStatus(ctx, code, status, ""); err != nil {
			s.logger.WithFields(logrus.Fields{"job_code": code, "error": err}).Warn("Failed to update import job")
		}
	}
}

func (s *ImportService) markFailed(ctx context.Context, code string, cause error) {
	s.logger.WithFields(logrus.Fields{"job_code": code, "error": cause}).Error("Import job failed")
	if err := s.tracker.SetStatus(ctx, code, models.JobFailed); err != nil {
		s.logger.WithFields(logrus.Fields{"job_code": code, "error": err}).Warn("Failed to store import status")
	}
	if s.jobs != nil {
		if err := s.jobs.UpdateStatus(ctx, code, models.JobFailed, cause.Error()); err != nil {
			s.logger.WithFields(logrus.Fields{"job_code": code, "error": err}).Warn("Failed to update import job")
		}
	}
}

func (s *ImportService) invalidate(ctx context.Context, owner string) {
	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx, owner)
	}
}

func (s *ImportService) removeUpload(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.WithFields(logrus.Fields{"path": path, "error": err}).Warn("Failed to remove upload")
	}
}
