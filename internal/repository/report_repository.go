package repository

import (
	"context"

	"shopwise-web/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	report.ID = uuid.NewString()
	query := `INSERT INTO reports (id, user_id, report_name, report_type, report_data, date_range_start, date_range_end)
	          VALUES (:id, :user_id, :report_name, :report_type, :report_data, :date_range_start, :date_range_end)`
	_, err := r.db.NamedExecContext(ctx, query, report)
	return err
}

func (r *ReportRepository) FindByID(ctx context.Context, owner, id string) (*models.Report, error) {
	var report models.Report
	query := "SELECT * FROM reports WHERE user_id = ? AND id = ? LIMIT 1"
	if err := r.db.GetContext(ctx, &report, query, owner, id); err != nil {
		return nil, notFound(err)
	}
	return &report, nil
}

// List returns the owner's reports, newest first, without their data.
func (r *ReportRepository) List(ctx context.Context, owner string, limit, offset int) ([]models.Report, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM reports WHERE user_id = ?", owner); err != nil {
		return nil, 0, err
	}

	reports := []models.Report{}
	query := `SELECT id, user_id, report_name, report_type, '{}' AS report_data, date_range_start, date_range_end, created_at
	          FROM reports WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &reports, query, owner, limit, offset); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *ReportRepository) Delete(ctx context.Context, owner, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM reports WHERE user_id = ? AND id = ?", owner, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
