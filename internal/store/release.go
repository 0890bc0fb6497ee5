package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"restroom-queue-backend/internal/model"
)

// ReleaseStudent closes the student's active session, recomputes the stall
// and defensively cancels any stray waiting entry left over from the
// delivery flow. It returns the stall's new status so the caller can show
// it (and notify subscribers when the stall turned free).
func (s *gormStore) ReleaseStudent(ctx context.Context, studentID, condition, notes string) (*ReleaseResult, error) {
	now := s.now()
	var result ReleaseResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.Session
		err := tx.Where("student_id = ? AND exited_at IS NULL", studentID).
			Order("entered_at, id").
			First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("student %s: %w", studentID, ErrNoActiveSession)
		}
		if err != nil {
			return fmt.Errorf("failed to find active session for %s: %w", studentID, err)
		}

		if err := closeSessionTx(tx, &session, session.ID, condition, notes, s.now); err != nil {
			return err
		}

		// A waiting entry for a student who is inside a stall should not
		// exist; cancel any so it cannot block a future request.
		var stray []model.WaitingEntry
		if err := tx.Where("student_id = ? AND status = ?", studentID, model.EntryWaiting).
			Find(&stray).Error; err != nil {
			return fmt.Errorf("failed to find stray entries for %s: %w", studentID, err)
		}
		for _, entry := range stray {
			if err := tx.Model(&model.WaitingEntry{}).
				Where("id = ?", entry.ID).
				Update("status", model.EntryCancelled).Error; err != nil {
				return fmt.Errorf("failed to cancel stray entry %d: %w", entry.ID, err)
			}
			if err := appendQueueEvent(tx, entry.ID, studentID, model.EventCleanup); err != nil {
				return err
			}
		}

		result.StallID = session.StallID
		result.StallStatus, err = refreshStall(tx, session.StallID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
