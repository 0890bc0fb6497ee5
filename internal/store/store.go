package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"restroom-queue-backend/internal/model"
)

// Store defines the interface for all database operations of the queue core.
type Store interface {
	DB() *gorm.DB

	// Stall registry
	ListStalls(ctx context.Context, filter StallFilter) ([]model.Stall, error)
	SetMaintenance(ctx context.Context, stallID int64, enabled bool, reason string) (*model.Stall, error)

	// Roster
	AddStudents(ctx context.Context, students []model.Student) (int, error)
	ListStudents(ctx context.Context) ([]model.Student, error)

	// Waiting queue
	Enqueue(ctx context.Context, studentID string) (*model.WaitingEntry, error)
	ListWaiting(ctx context.Context, gender string) ([]model.WaitingEntry, error)
	CancelEntry(ctx context.Context, entryID int64) error

	// Assignment engine
	SeedMatches(ctx context.Context) ([]SeedMatch, error)
	CommitAssignment(ctx context.Context, studentIDs []string, stallID int64, entryNotes string) error

	// Occupancy sessions
	ActiveSessionsFor(ctx context.Context, stallID int64) ([]model.Session, error)
	CloseSession(ctx context.Context, sessionID int64, condition, notes string) (*model.Session, error)
	ReleaseStudent(ctx context.Context, studentID, condition, notes string) (*ReleaseResult, error)
	ListHistory(ctx context.Context, filter HistoryFilter) ([]model.Session, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// DB exposes the underlying gorm handle for collaborators that run their
// own reads (subscription handlers, notification worker).
func (s *gormStore) DB() *gorm.DB {
	return s.db
}
