package repository

import (
	"context"

	"shopwise-web/internal/models"

	"github.com/jmoiron/sqlx"
)

// ImportJobRepository stores background import jobs.
type ImportJobRepository struct {
	db *sqlx.DB
}

func NewImportJobRepository(db *sqlx.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

func (r *ImportJobRepository) Create(ctx context.Context, job *models.ImportJob) error {
	query := `INSERT INTO import_jobs (job_code, user_id, filename, file_path, total_rows, status)
	          VALUES (:job_code, :user_id, :filename, :file_path, :total_rows, :status)`
	result, err := r.db.NamedExecContext(ctx, query, job)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	job.ID = int(id)
	return nil
}

func (r *ImportJobRepository) GetByCode(ctx context.Context, code string) (*models.ImportJob, error) {
	var job models.ImportJob
	query := `SELECT id, job_code, user_id, filename, file_path, total_rows, created_rows, updated_rows,
	          failed_rows, status, COALESCE(error_message, '') AS error_message, created_at, updated_at
	          FROM import_jobs WHERE job_code = ? LIMIT 1`
	if err := r.db.GetContext(ctx, &job, query, code); err != nil {
		return nil, notFound(err)
	}
	return &job, nil
}

func (r *ImportJobRepository) List(ctx context.Context, owner string, limit, offset int) ([]models.ImportJob, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM import_jobs WHERE user_id = ?", owner); err != nil {
		return nil, 0, err
	}

	jobs := []models.ImportJob{}
	query := `SELECT id, job_code, user_id, filename, file_path, total_rows, created_rows, updated_rows,
	          failed_rows, status, COALESCE(error_message, '') AS error_message, created_at, updated_at
	          FROM import_jobs WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &jobs, query, owner, limit, offset); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *ImportJobRepository) UpdateStatus(ctx context.Context, code, status, errorMessage string) error {
	query := "UPDATE import_jobs SET status = ?, error_message = ? WHERE job_code = ?"
	_, err := r.db.ExecContext(ctx, query, status, errorMessage, code)
	return err
}

// Complete records the final counters of a job.
func (r *ImportJobRepository) Complete(ctx context.Context, code string, totalRows int, outcome *models.ImportOutcome) error {
	query := `UPDATE import_jobs SET status = ?, total_rows = ?, created_rows = ?, updated_rows = ?, failed_rows = ?
	          WHERE job_code = ?`
	_, err := r.db.ExecContext(ctx, query, models.JobCompleted, totalRows,
		outcome.Created, outcome.Updated, outcome.Failed, code)
	return err
}
