package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"restroom-queue-backend/internal/model"
)

// ActiveSessionsFor returns a stall's open sessions in entry order.
func (s *gormStore) ActiveSessionsFor(ctx context.Context, stallID int64) ([]model.Session, error) {
	var sessions []model.Session
	err := s.db.WithContext(ctx).
		Preload("Student").
		Where("stall_id = ? AND exited_at IS NULL", stallID).
		Order("entered_at, id").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions for stall %d: %w", stallID, err)
	}
	return sessions, nil
}

// CloseSession records a session's exit and recomputes its stall. Closing
// an already-closed session returns ErrAlreadyClosed and changes nothing.
func (s *gormStore) CloseSession(ctx context.Context, sessionID int64, condition, notes string) (*model.Session, error) {
	now := s.now()
	var session model.Session

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := closeSessionTx(tx, &session, sessionID, condition, notes, s.now); err != nil {
			return err
		}
		_, err := refreshStall(tx, session.StallID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// closeSessionTx performs the guarded close inside an existing transaction
// and fills session with the closed row.
func closeSessionTx(tx *gorm.DB, session *model.Session, sessionID int64, condition, notes string, nowFn func() time.Time) error {
	if !model.ValidExitCondition(condition) {
		return fmt.Errorf("exit condition %q: %w", condition, ErrInvalidState)
	}

	if err := tx.First(session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
		}
		return fmt.Errorf("failed to load session %d: %w", sessionID, err)
	}
	if session.ExitedAt != nil {
		return fmt.Errorf("session %d: %w", sessionID, ErrAlreadyClosed)
	}

	now := nowFn()
	res := tx.Model(&model.Session{}).
		Where("id = ? AND exited_at IS NULL", sessionID).
		Updates(map[string]any{
			"exited_at":      now,
			"exit_condition": condition,
			"exit_notes":     notes,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to close session %d: %w", sessionID, res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("session %d: %w", sessionID, ErrAlreadyClosed)
	}

	session.ExitedAt = &now
	session.ExitCondition = condition
	session.ExitNotes = notes
	return nil
}

// ListHistory returns closed sessions, newest exit first.
func (s *gormStore) ListHistory(ctx context.Context, filter HistoryFilter) ([]model.Session, error) {
	q := s.db.WithContext(ctx).
		Preload("Student").
		Preload("Stall").
		Where("exited_at IS NOT NULL").
		Order("exited_at DESC, id DESC")
	if filter.StallID != 0 {
		q = q.Where("stall_id = ?", filter.StallID)
	}
	if filter.From != nil {
		q = q.Where("exited_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("exited_at < ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var sessions []model.Session
	if err := q.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list session history: %w", err)
	}
	return sessions, nil
}
