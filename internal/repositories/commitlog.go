package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/atx/internal/models"
	"github.com/desertthunder/atx/internal/shared"
)

// CommitLogRepository persists itemized session commit outcomes.
//
// Implements the commit recorder seam used by the workflow engine: every
// commit, partial or clean, leaves one row with its per-student failures
// serialized as JSON.
type CommitLogRepository struct {
	db *sql.DB
}

// NewCommitLogRepository creates a new CommitLogRepository with the given database connection
func NewCommitLogRepository(db *sql.DB) *CommitLogRepository {
	return &CommitLogRepository{db: db}
}

// Record inserts a commit log entry. Satisfies tasks.CommitRecorder.
func (r *CommitLogRepository) Record(entry *models.CommitLogEntry) error {
	return r.Create(entry)
}

// Create inserts a new commit log entry with generated ID and sequence
func (r *CommitLogRepository) Create(entry *models.CommitLogEntry) error {
	sequence, err := NextSequence(r.db, "commit_log")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	entry.SetID(id)

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	failures, err := json.Marshal(entry.Failures)
	if err != nil {
		return fmt.Errorf("failed to marshal failures: %w", err)
	}

	query := `
		INSERT INTO commit_log (id, sequence, session_remote_id, course_remote_id, session_date, session_number, attempted, created_count, failed_count, failures, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		entry.SessionID,
		entry.CourseID,
		entry.Date,
		entry.SessionNumber,
		entry.Attempted,
		entry.Created,
		len(entry.Failures),
		string(failures),
		entry.CreatedAt(),
		entry.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert commit log entry: %w", err)
	}

	return nil
}

// Get retrieves a commit log entry by ID, excluding soft-deleted rows
func (r *CommitLogRepository) Get(id string) (*models.CommitLogEntry, error) {
	query := `
		SELECT id, sequence, session_remote_id, course_remote_id, session_date, session_number, attempted, created_count, failures, created_at, updated_at, deleted_at
		FROM commit_log
		WHERE id = ? AND deleted_at IS NULL
	`

	entry, err := scanCommitLog(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("commit log entry not found")
	}
	return entry, err
}

// Update is not supported: the commit log is append-only.
func (r *CommitLogRepository) Update(entry *models.CommitLogEntry) error {
	return fmt.Errorf("%w: commit log entries are immutable", shared.ErrNotImplemented)
}

// Delete soft-deletes a commit log entry by ID
func (r *CommitLogRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE commit_log
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete commit log entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("commit log entry not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves commit log entries matching the given criteria, newest first
func (r *CommitLogRepository) List(criteria map[string]any) ([]*models.CommitLogEntry, error) {
	query := `
		SELECT id, sequence, session_remote_id, course_remote_id, session_date, session_number, attempted, created_count, failures, created_at, updated_at, deleted_at
		FROM commit_log
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if courseID, ok := criteria["course_remote_id"].(int); ok && courseID > 0 {
		query += " AND course_remote_id = ?"
		args = append(args, courseID)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commit log: %w", err)
	}
	defer rows.Close()

	var entries []*models.CommitLogEntry
	for rows.Next() {
		entry, err := scanCommitLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

func scanCommitLog(row scannable) (*models.CommitLogEntry, error) {
	var (
		id            string
		sequence      int
		sessionID     int
		courseID      int
		date          string
		sessionNumber int
		attempted     int
		created       int
		failuresJSON  string
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := row.Scan(&id, &sequence, &sessionID, &courseID, &date, &sessionNumber, &attempted, &created, &failuresJSON, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan commit log entry: %w", err)
	}

	var failures []models.CommitFailure
	if err := json.Unmarshal([]byte(failuresJSON), &failures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failures: %w", err)
	}

	entry := models.NewCommitLogEntry(sequence)
	entry.SetID(id)
	entry.SessionID = sessionID
	entry.CourseID = courseID
	entry.Date = date
	entry.SessionNumber = sessionNumber
	entry.Attempted = attempted
	entry.Created = created
	entry.Failures = failures
	entry.SetCreatedAt(createdAt)
	entry.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		entry.SetDeletedAt(&deletedAt.Time)
	}

	return entry, nil
}
