// Package models defines domain entities and client-side draft state for the attendance tracker.
//
// The package contains three categories of types:
//
// 1. Data Transfer Objects (DTOs): structs mirroring the tracker API's JSON resources
//   - [Course] : A course offering (subject, year, term, instructor)
//   - [Student] : An enrolled student, grouped by cohort year
//   - [ClassSession] : One dated occurrence of a course with a sequence number
//   - [AttendanceRecord] : A persisted per-student attendance status
//   - [Assignment] : A gradable deliverable (TP) attached to a course
//
// 2. Client-only draft state for the registration workflow
//   - [SessionDraft] : The in-progress class session, owned by a single workflow instance
//   - [DraftEntry] : One student's unsaved attendance/participation/assignment fields
//
// The draft is a leaf component: it performs no I/O and is mutated only through its
// Set* methods, which validate input and recompute the present/absent counters by
// full re-scan after every successful write (last write wins).
//
// 3. Persistent cache entities backed by the local SQLite database
//   - [CachedCourse], [CachedStudent] : Offline copies of reference data
//   - [CommitLogEntry] : Itemized outcome of a session commit
//
// All persistent entities implement the [Model] interface providing ID generation,
// timestamps, validation, and soft delete support. The [Repository] interface defines
// standard CRUD operations for database access.
package models
