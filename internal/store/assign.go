package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"restroom-queue-backend/internal/model"
)

// SeedMatches scans both gender lanes and pairs each lane's head with the
// first free stall of that gender. Lanes with no waiting student or no free
// stall produce no match; there is never a fallback to the other lane's
// stalls.
func (s *gormStore) SeedMatches(ctx context.Context) ([]SeedMatch, error) {
	var matches []SeedMatch
	for _, gender := range []string{model.GenderFemale, model.GenderMale} {
		var entry model.WaitingEntry
		err := s.db.WithContext(ctx).
			Preload("Student").
			Where("status = ? AND gender = ?", model.EntryWaiting, gender).
			Order("requested_at, id").
			First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find lane head for gender %s: %w", gender, err)
		}

		var stall model.Stall
		err = s.db.WithContext(ctx).
			Where("status = ? AND gender = ?", model.StallFree, gender).
			Order("id").
			First(&stall).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find free stall for gender %s: %w", gender, err)
		}

		matches = append(matches, SeedMatch{Entry: entry, Stall: stall})
	}
	return matches, nil
}

// CommitAssignment delivers a stall to a group of waiting students in one
// transaction: a compare-and-set takes the stall Free -> Occupied, then for
// each student its waiting entry is consumed and a session opened. Losing
// the CAS yields ErrStallNotFree; a consumed entry yields a CommitError
// naming the student, and the whole transaction rolls back so nobody ends
// up matched without a session.
func (s *gormStore) CommitAssignment(ctx context.Context, studentIDs []string, stallID int64, entryNotes string) error {
	if len(studentIDs) == 0 {
		return fmt.Errorf("empty assignment group: %w", ErrInvalidState)
	}
	now := s.now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stall model.Stall
		if err := tx.First(&stall, stallID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("stall %d: %w", stallID, ErrNotFound)
			}
			return fmt.Errorf("failed to load stall %d: %w", stallID, err)
		}

		// The seed match saw the stall free; re-check at commit time. Only
		// one of two racing commits can flip the row.
		res := tx.Model(&model.Stall{}).
			Where("id = ? AND status = ?", stallID, model.StallFree).
			Updates(map[string]any{
				"status":            model.StallOccupied,
				"status_changed_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to claim stall %d: %w", stallID, res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("stall %d is %s: %w", stallID, stall.Status, ErrStallNotFree)
		}

		for _, studentID := range studentIDs {
			var entry model.WaitingEntry
			err := tx.Where("student_id = ? AND status = ?", studentID, model.EntryWaiting).
				Order("requested_at, id").
				First(&entry).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &CommitError{StudentID: studentID, Err: ErrEntryNotWaiting}
			}
			if err != nil {
				return fmt.Errorf("failed to load waiting entry for %s: %w", studentID, err)
			}

			if entry.Gender != stall.Gender {
				return &CommitError{
					StudentID: studentID,
					Err:       fmt.Errorf("gender %s does not match stall: %w", entry.Gender, ErrInvalidState),
				}
			}

			upd := tx.Model(&model.WaitingEntry{}).
				Where("id = ? AND status = ?", entry.ID, model.EntryWaiting).
				Update("status", model.EntryMatched)
			if upd.Error != nil {
				return fmt.Errorf("failed to mark entry %d matched: %w", entry.ID, upd.Error)
			}
			if upd.RowsAffected != 1 {
				return &CommitError{StudentID: studentID, Err: ErrEntryNotWaiting}
			}

			session := model.Session{
				StudentID:  studentID,
				StallID:    stallID,
				EnteredAt:  now,
				EntryNotes: entryNotes,
			}
			if err := tx.Create(&session).Error; err != nil {
				return &CommitError{
					StudentID: studentID,
					Err:       fmt.Errorf("failed to open session: %w", err),
				}
			}

			if err := appendQueueEvent(tx, entry.ID, studentID, model.EventMatched); err != nil {
				return err
			}
		}

		if _, err := refreshStall(tx, stallID, now); err != nil {
			return err
		}
		return nil
	})
}
