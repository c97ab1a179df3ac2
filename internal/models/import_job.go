package models

import "time"

// Import job statuses.
const (
	JobQueued     = "queued"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// ImportJob tracks a background import.
type ImportJob struct {
	ID           int       `db:"id" json:"id"`
	JobCode      string    `db:"job_code" json:"job_code"`
	UserID       string    `db:"user_id" json:"user_id"`
	Filename     string    `db:"filename" json:"filename"`
	FilePath     string    `db:"file_path" json:"-"`
	TotalRows    int       `db:"total_rows" json:"total_rows"`
	CreatedRows  int       `db:"created_rows" json:"created_rows"`
	UpdatedRows  int       `db:"updated_rows" json:"updated_rows"`
	FailedRows   int       `db:"failed_rows" json:"failed_rows"`
	Status       string    `db:"status" json:"status"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ImportTaskPayload is the asynq payload for a background import.
type ImportTaskPayload struct {
	JobCode  string `json:"job_code"`
	Owner    string `json:"owner"`
	FilePath string `json:"file_path"`
	Filename string `json:"filename"`
}
