package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"restroom-queue-backend/internal/model"
)

// Enqueue creates a waiting entry for a student. The gender lane is derived
// from the roster row. A student who is already waiting or already inside a
// stall gets ErrDuplicateRequest.
func (s *gormStore) Enqueue(ctx context.Context, studentID string) (*model.WaitingEntry, error) {
	now := s.now()
	var entry model.WaitingEntry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student model.Student
		if err := tx.First(&student, "id = ?", studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("student %s: %w", studentID, ErrNotFound)
			}
			return fmt.Errorf("failed to load student %s: %w", studentID, err)
		}

		var waiting int64
		if err := tx.Model(&model.WaitingEntry{}).
			Where("student_id = ? AND status = ?", studentID, model.EntryWaiting).
			Count(&waiting).Error; err != nil {
			return fmt.Errorf("failed to check waiting entries for %s: %w", studentID, err)
		}
		if waiting > 0 {
			return fmt.Errorf("student %s already waiting: %w", studentID, ErrDuplicateRequest)
		}

		var inStall int64
		if err := tx.Model(&model.Session{}).
			Where("student_id = ? AND exited_at IS NULL", studentID).
			Count(&inStall).Error; err != nil {
			return fmt.Errorf("failed to check active sessions for %s: %w", studentID, err)
		}
		if inStall > 0 {
			return fmt.Errorf("student %s is inside a stall: %w", studentID, ErrDuplicateRequest)
		}

		entry = model.WaitingEntry{
			StudentID:   studentID,
			Gender:      student.Gender,
			Status:      model.EntryWaiting,
			RequestedAt: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to create waiting entry for %s: %w", studentID, err)
		}
		entry.Student = student

		return appendQueueEvent(tx, entry.ID, studentID, model.EventEnqueued)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListWaiting returns waiting entries in FIFO order (requested_at, id),
// optionally narrowed to one gender lane. Each call re-queries: the result
// is the current queue, not a frozen snapshot.
func (s *gormStore) ListWaiting(ctx context.Context, gender string) ([]model.WaitingEntry, error) {
	q := s.db.WithContext(ctx).
		Preload("Student").
		Where("status = ?", model.EntryWaiting).
		Order("requested_at, id")
	if gender != "" {
		q = q.Where("gender = ?", gender)
	}

	var entries []model.WaitingEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list waiting entries: %w", err)
	}
	return entries, nil
}

// CancelEntry moves a waiting entry to cancelled. The update is guarded on
// the waiting status, so a cancel that races a commit loses: the entry is
// already matched and the caller gets ErrEntryNotWaiting.
func (s *gormStore) CancelEntry(ctx context.Context, entryID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry model.WaitingEntry
		if err := tx.First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("entry %d: %w", entryID, ErrNotFound)
			}
			return fmt.Errorf("failed to load entry %d: %w", entryID, err)
		}

		res := tx.Model(&model.WaitingEntry{}).
			Where("id = ? AND status = ?", entryID, model.EntryWaiting).
			Update("status", model.EntryCancelled)
		if res.Error != nil {
			return fmt.Errorf("failed to cancel entry %d: %w", entryID, res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("entry %d is %s: %w", entryID, entry.Status, ErrEntryNotWaiting)
		}

		return appendQueueEvent(tx, entryID, entry.StudentID, model.EventCancelled)
	})
}

// appendQueueEvent writes one append-only audit row inside the caller's
// transaction.
func appendQueueEvent(tx *gorm.DB, entryID int64, studentID, event string) error {
	ev := model.QueueEvent{EntryID: entryID, StudentID: studentID, Event: event}
	if err := tx.Create(&ev).Error; err != nil {
		return fmt.Errorf("failed to append queue event %q for entry %d: %w", event, entryID, err)
	}
	return nil
}
