package repositories

import (
	"fmt"

	"github.com/desertthunder/atx/internal/models"
)

// CacheSyncAdapter mirrors API reference data into the local cache.
//
// Courses and students are upserted by remote ID: existing rows are updated
// in place, new rows are inserted. Duplicate inserts racing on the unique
// remote_id index are silently ignored.
type CacheSyncAdapter struct {
	courses  *CourseRepository
	students *StudentRepository
}

// NewCacheSyncAdapter creates a new CacheSyncAdapter with the given repositories
func NewCacheSyncAdapter(courses *CourseRepository, students *StudentRepository) *CacheSyncAdapter {
	return &CacheSyncAdapter{courses: courses, students: students}
}

// SyncCourses upserts the given courses and returns how many rows changed.
func (a *CacheSyncAdapter) SyncCourses(courses []models.Course) (int, error) {
	synced := 0
	for _, dto := range courses {
		existing, err := a.courses.GetByRemoteID(dto.ID)
		if err == nil && existing != nil {
			existing.Course = dto
			if err := a.courses.Update(existing); err != nil {
				return synced, fmt.Errorf("failed to update course %d: %w", dto.ID, err)
			}
			synced++
			continue
		}

		if err := a.courses.Create(models.NewCachedCourse(0, dto)); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return synced, fmt.Errorf("failed to cache course %d: %w", dto.ID, err)
		}
		synced++
	}
	return synced, nil
}

// SyncStudents upserts the given students and returns how many rows changed.
func (a *CacheSyncAdapter) SyncStudents(students []models.Student) (int, error) {
	synced := 0
	for _, dto := range students {
		existing, err := a.students.GetByRemoteID(dto.ID)
		if err == nil && existing != nil {
			existing.Student = dto
			if err := a.students.Update(existing); err != nil {
				return synced, fmt.Errorf("failed to update student %d: %w", dto.ID, err)
			}
			synced++
			continue
		}

		if err := a.students.Create(models.NewCachedStudent(0, dto)); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return synced, fmt.Errorf("failed to cache student %d: %w", dto.ID, err)
		}
		synced++
	}
	return synced, nil
}
