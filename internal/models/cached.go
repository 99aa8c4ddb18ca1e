package models

import (
	"fmt"
	"time"
)

// CachedCourse is a locally persisted copy of a [Course] for offline listing.
type CachedCourse struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time

	Course Course
}

// NewCachedCourse creates a cache row wrapping the given course DTO.
func NewCachedCourse(sequence int, dto Course) *CachedCourse {
	now := time.Now()
	return &CachedCourse{sequence: sequence, createdAt: now, updatedAt: now, Course: dto}
}

func (c *CachedCourse) ID() string            { return c.id }
func (c *CachedCourse) SetID(id string)       { c.id = id }
func (c *CachedCourse) Sequence() int         { return c.sequence }
func (c *CachedCourse) CreatedAt() time.Time  { return c.createdAt }
func (c *CachedCourse) UpdatedAt() time.Time  { return c.updatedAt }
func (c *CachedCourse) SetCreatedAt(t time.Time) { c.createdAt = t }
func (c *CachedCourse) SetUpdatedAt(t time.Time) { c.updatedAt = t }
func (c *CachedCourse) DeletedAt() *time.Time { return c.deletedAt }
func (c *CachedCourse) SetDeletedAt(t *time.Time) { c.deletedAt = t }

// Validate checks that the cached course carries usable reference data.
func (c *CachedCourse) Validate() error {
	if c.Course.ID <= 0 {
		return fmt.Errorf("course remote id is required")
	}
	if c.Course.SubjectName == "" {
		return fmt.Errorf("course subject name is required")
	}
	if c.Course.Year <= 0 {
		return fmt.Errorf("course year is required")
	}
	return nil
}

// CachedStudent is a locally persisted copy of a [Student] for offline rosters.
type CachedStudent struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time

	Student Student
}

// NewCachedStudent creates a cache row wrapping the given student DTO.
func NewCachedStudent(sequence int, dto Student) *CachedStudent {
	now := time.Now()
	return &CachedStudent{sequence: sequence, createdAt: now, updatedAt: now, Student: dto}
}

func (s *CachedStudent) ID() string            { return s.id }
func (s *CachedStudent) SetID(id string)       { s.id = id }
func (s *CachedStudent) Sequence() int         { return s.sequence }
func (s *CachedStudent) CreatedAt() time.Time  { return s.createdAt }
func (s *CachedStudent) UpdatedAt() time.Time  { return s.updatedAt }
func (s *CachedStudent) SetCreatedAt(t time.Time) { s.createdAt = t }
func (s *CachedStudent) SetUpdatedAt(t time.Time) { s.updatedAt = t }
func (s *CachedStudent) DeletedAt() *time.Time { return s.deletedAt }
func (s *CachedStudent) SetDeletedAt(t *time.Time) { s.deletedAt = t }

func (s *CachedStudent) Validate() error {
	if s.Student.ID <= 0 {
		return fmt.Errorf("student remote id is required")
	}
	if s.Student.FullName == "" {
		return fmt.Errorf("student full name is required")
	}
	if s.Student.CohortYear <= 0 {
		return fmt.Errorf("student cohort year is required")
	}
	return nil
}

// CommitFailure identifies one student whose attendance write failed during commit.
type CommitFailure struct {
	StudentID int    `json:"student_id"`
	Reason    string `json:"reason"`
}

// CommitLogEntry is the locally persisted, itemized outcome of one session commit.
//
// The API-facing commit result only reports an aggregate created count; the
// commit log is where per-student failures are kept for later inspection.
type CommitLogEntry struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time

	SessionID     int
	CourseID      int
	Date          string
	SessionNumber int
	Attempted     int
	Created       int
	Failures      []CommitFailure
}

// NewCommitLogEntry creates a log row for a completed (possibly partial) commit.
func NewCommitLogEntry(sequence int) *CommitLogEntry {
	now := time.Now()
	return &CommitLogEntry{sequence: sequence, createdAt: now, updatedAt: now}
}

func (e *CommitLogEntry) ID() string            { return e.id }
func (e *CommitLogEntry) SetID(id string)       { e.id = id }
func (e *CommitLogEntry) Sequence() int         { return e.sequence }
func (e *CommitLogEntry) CreatedAt() time.Time  { return e.createdAt }
func (e *CommitLogEntry) UpdatedAt() time.Time  { return e.updatedAt }
func (e *CommitLogEntry) SetCreatedAt(t time.Time) { e.createdAt = t }
func (e *CommitLogEntry) SetUpdatedAt(t time.Time) { e.updatedAt = t }
func (e *CommitLogEntry) DeletedAt() *time.Time { return e.deletedAt }
func (e *CommitLogEntry) SetDeletedAt(t *time.Time) { e.deletedAt = t }

func (e *CommitLogEntry) Validate() error {
	if e.SessionID <= 0 {
		return fmt.Errorf("session id is required")
	}
	if e.CourseID <= 0 {
		return fmt.Errorf("course id is required")
	}
	if e.Created > e.Attempted {
		return fmt.Errorf("created count exceeds attempted count")
	}
	return nil
}
