package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/atx/internal/models"
	"github.com/desertthunder/atx/internal/shared"
)

// CourseRepository implements models.Repository[*models.CachedCourse] for course caching.
//
// Handles course CRUD operations with soft delete support and remote-ID lookups.
type CourseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new CourseRepository with the given database connection
func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new cached course into the database with generated ID and sequence
func (r *CourseRepository) Create(course *models.CachedCourse) error {
	sequence, err := NextSequence(r.db, "courses")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	course.SetID(id)

	if err := course.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO courses (id, sequence, remote_id, subject_name, year, term, instructor, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		course.Course.ID,
		course.Course.SubjectName,
		course.Course.Year,
		course.Course.Term,
		course.Course.Instructor,
		course.CreatedAt(),
		course.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}

	return nil
}

// Get retrieves a cached course by ID, excluding soft-deleted rows
func (r *CourseRepository) Get(id string) (*models.CachedCourse, error) {
	query := `
		SELECT id, sequence, remote_id, subject_name, year, term, instructor, created_at, updated_at, deleted_at
		FROM courses
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a cached course by its API-assigned ID
func (r *CourseRepository) GetByRemoteID(remoteID int) (*models.CachedCourse, error) {
	query := `
		SELECT id, sequence, remote_id, subject_name, year, term, instructor, created_at, updated_at, deleted_at
		FROM courses
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing cached course in the database
func (r *CourseRepository) Update(course *models.CachedCourse) error {
	if err := course.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	course.SetUpdatedAt(now)

	query := `
		UPDATE courses
		SET subject_name = ?, year = ?, term = ?, instructor = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		course.Course.SubjectName,
		course.Course.Year,
		course.Course.Term,
		course.Course.Instructor,
		now,
		course.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("course not found or already deleted: %s", course.ID())
	}

	return nil
}

// Delete soft-deletes a cached course by ID
func (r *CourseRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE courses
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("course not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all cached courses matching the given criteria, excluding soft-deleted rows
func (r *CourseRepository) List(criteria map[string]any) ([]*models.CachedCourse, error) {
	query := `
		SELECT id, sequence, remote_id, subject_name, year, term, instructor, created_at, updated_at, deleted_at
		FROM courses
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if year, ok := criteria["year"].(int); ok && year > 0 {
		query += " AND year = ?"
		args = append(args, year)
	}

	if term, ok := criteria["term"].(string); ok && term != "" {
		query += " AND term = ?"
		args = append(args, term)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.CachedCourse
	for rows.Next() {
		course, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return courses, nil
}

type scannable interface {
	Scan(dest ...any) error
}

// scanOne scans a single row into a [models.CachedCourse]
func (r *CourseRepository) scanOne(row *sql.Row) (*models.CachedCourse, error) {
	course, err := scanCourse(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("course not found")
	}
	return course, err
}

// scanRow scans a row from [sql.Rows] into a [models.CachedCourse]
func (r *CourseRepository) scanRow(rows *sql.Rows) (*models.CachedCourse, error) {
	return scanCourse(rows)
}

func scanCourse(row scannable) (*models.CachedCourse, error) {
	var (
		id          string
		sequence    int
		remoteID    int
		subjectName string
		year        int
		term        string
		instructor  string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &subjectName, &year, &term, &instructor, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}

	dto := models.Course{
		ID:          remoteID,
		SubjectName: subjectName,
		Year:        year,
		Term:        term,
		Instructor:  instructor,
	}

	course := models.NewCachedCourse(sequence, dto)
	course.SetID(id)
	course.SetCreatedAt(createdAt)
	course.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		course.SetDeletedAt(&deletedAt.Time)
	}

	return course, nil
}
