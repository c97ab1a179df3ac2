package repository

import (
	"context"
	"regexp"
	"testing"

	"shopwise-web/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportJobLifecycle(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewImportJobRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO import_jobs")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE import_jobs SET status = ?, error_message = ? WHERE job_code = ?")).
		WithArgs(models.JobProcessing, "", "code-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE import_jobs SET status = ?, total_rows = ?")).
		WithArgs(models.JobCompleted, 3, 2, 0, 1, "code-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	job := &models.ImportJob{JobCode: "code-1", UserID: testOwner, Filename: "a.csv", Status: models.JobQueued}
	require.NoError(t, repo.Create(ctx, job))
	assert.Equal(t, 7, job.ID)

	require.NoError(t, repo.UpdateStatus(ctx, "code-1", models.JobProcessing, ""))
	require.NoError(t, repo.Complete(ctx, "code-1", 3, &models.ImportOutcome{Created: 2, Failed: 1}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportJobGetByCodeNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewImportJobRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM import_jobs WHERE job_code = ?")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByCode(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
