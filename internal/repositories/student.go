package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/atx/internal/models"
	"github.com/desertthunder/atx/internal/shared"
)

// StudentRepository implements models.Repository[*models.CachedStudent] for roster caching.
type StudentRepository struct {
	db *sql.DB
}

// NewStudentRepository creates a new StudentRepository with the given database connection
func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a new cached student into the database with generated ID and sequence
func (r *StudentRepository) Create(student *models.CachedStudent) error {
	sequence, err := NextSequence(r.db, "students")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	student.SetID(id)

	if err := student.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO students (id, sequence, remote_id, full_name, national_id, email, cohort_year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		student.Student.ID,
		student.Student.FullName,
		student.Student.NationalID,
		student.Student.Email,
		student.Student.CohortYear,
		student.CreatedAt(),
		student.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert student: %w", err)
	}

	return nil
}

// Get retrieves a cached student by ID, excluding soft-deleted rows
func (r *StudentRepository) Get(id string) (*models.CachedStudent, error) {
	query := `
		SELECT id, sequence, remote_id, full_name, national_id, email, cohort_year, created_at, updated_at, deleted_at
		FROM students
		WHERE id = ? AND deleted_at IS NULL
	`

	student, err := scanStudent(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("student not found")
	}
	return student, err
}

// GetByRemoteID retrieves a cached student by its API-assigned ID
func (r *StudentRepository) GetByRemoteID(remoteID int) (*models.CachedStudent, error) {
	query := `
		SELECT id, sequence, remote_id, full_name, national_id, email, cohort_year, created_at, updated_at, deleted_at
		FROM students
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	student, err := scanStudent(r.db.QueryRow(query, remoteID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("student not found")
	}
	return student, err
}

// Update modifies an existing cached student in the database
func (r *StudentRepository) Update(student *models.CachedStudent) error {
	if err := student.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	student.SetUpdatedAt(now)

	query := `
		UPDATE students
		SET full_name = ?, national_id = ?, email = ?, cohort_year = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		student.Student.FullName,
		student.Student.NationalID,
		student.Student.Email,
		student.Student.CohortYear,
		now,
		student.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("student not found or already deleted: %s", student.ID())
	}

	return nil
}

// Delete soft-deletes a cached student by ID
func (r *StudentRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE students
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("student not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all cached students matching the given criteria, excluding soft-deleted rows
func (r *StudentRepository) List(criteria map[string]any) ([]*models.CachedStudent, error) {
	query := `
		SELECT id, sequence, remote_id, full_name, national_id, email, cohort_year, created_at, updated_at, deleted_at
		FROM students
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if cohort, ok := criteria["cohort_year"].(int); ok && cohort > 0 {
		query += " AND cohort_year = ?"
		args = append(args, cohort)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var students []*models.CachedStudent
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return students, nil
}

func scanStudent(row scannable) (*models.CachedStudent, error) {
	var (
		id         string
		sequence   int
		remoteID   int
		fullName   string
		nationalID string
		email      string
		cohortYear int
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &fullName, &nationalID, &email, &cohortYear, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	dto := models.Student{
		ID:         remoteID,
		FullName:   fullName,
		NationalID: nationalID,
		Email:      email,
		CohortYear: cohortYear,
	}

	student := models.NewCachedStudent(sequence, dto)
	student.SetID(id)
	student.SetCreatedAt(createdAt)
	student.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		student.SetDeletedAt(&deletedAt.Time)
	}

	return student, nil
}
