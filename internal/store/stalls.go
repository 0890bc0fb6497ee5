package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"restroom-queue-backend/internal/model"
)

// ListStalls returns stalls ordered by id, optionally narrowed by status
// and/or gender. Read-only.
func (s *gormStore) ListStalls(ctx context.Context, filter StallFilter) ([]model.Stall, error) {
	q := s.db.WithContext(ctx).Order("id")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Gender != "" {
		q = q.Where("gender = ?", filter.Gender)
	}

	var stalls []model.Stall
	if err := q.Find(&stalls).Error; err != nil {
		return nil, fmt.Errorf("failed to list stalls: %w", err)
	}
	return stalls, nil
}

// SetMaintenance moves a stall in or out of maintenance. Enabling it on an
// occupied stall force-closes every active session (exit condition
// "Mantenimiento") rather than leaving them open forever; disabling it
// requires the stall to actually be in maintenance.
func (s *gormStore) SetMaintenance(ctx context.Context, stallID int64, enabled bool, reason string) (*model.Stall, error) {
	now := s.now()
	var stall model.Stall

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&stall, stallID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("stall %d: %w", stallID, ErrNotFound)
			}
			return fmt.Errorf("failed to load stall %d: %w", stallID, err)
		}

		if enabled {
			res := tx.Model(&model.Session{}).
				Where("stall_id = ? AND exited_at IS NULL", stallID).
				Updates(map[string]any{
					"exited_at":      now,
					"exit_condition": model.ExitMaintenance,
				})
			if res.Error != nil {
				return fmt.Errorf("failed to force-close sessions for stall %d: %w", stallID, res.Error)
			}

			updates := map[string]any{
				"status":             model.StallMaintenance,
				"occupied_by":        "",
				"occupant_units":     "",
				"maintenance_reason": reason,
				"status_changed_at":  now,
			}
			if err := tx.Model(&stall).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to set stall %d to maintenance: %w", stallID, err)
			}
			return nil
		}

		if stall.Status != model.StallMaintenance {
			return fmt.Errorf("stall %d is not in maintenance: %w", stallID, ErrInvalidState)
		}
		updates := map[string]any{
			"status":             model.StallFree,
			"occupied_by":        "",
			"occupant_units":     "",
			"maintenance_reason": "",
			"status_changed_at":  now,
		}
		if err := tx.Model(&stall).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to clear maintenance on stall %d: %w", stallID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).First(&stall, stallID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload stall %d: %w", stallID, err)
	}
	return &stall, nil
}

// refreshStall recomputes a stall's status and occupant summary from its
// active sessions, inside the caller's transaction. Maintenance is never
// downgraded here; it is only cleared by SetMaintenance.
func refreshStall(tx *gorm.DB, stallID int64, now time.Time) (model.StallStatus, error) {
	var stall model.Stall
	if err := tx.First(&stall, stallID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("stall %d: %w", stallID, ErrNotFound)
		}
		return "", fmt.Errorf("failed to load stall %d: %w", stallID, err)
	}

	var active []model.Session
	if err := tx.Preload("Student").
		Where("stall_id = ? AND exited_at IS NULL", stallID).
		Order("entered_at, id").
		Find(&active).Error; err != nil {
		return "", fmt.Errorf("failed to load active sessions for stall %d: %w", stallID, err)
	}

	names, units := summarizeOccupants(active)

	status := stall.Status
	if status != model.StallMaintenance {
		if len(active) > 0 {
			status = model.StallOccupied
		} else {
			status = model.StallFree
		}
	}

	updates := map[string]any{
		"status":         status,
		"occupied_by":    names,
		"occupant_units": units,
	}
	if status != stall.Status {
		updates["status_changed_at"] = now
	}
	if err := tx.Model(&model.Stall{ID: stallID}).Updates(updates).Error; err != nil {
		return "", fmt.Errorf("failed to update stall %d: %w", stallID, err)
	}
	return status, nil
}

// summarizeOccupants rebuilds the display caches from active sessions,
// keyed by student id so the same student never lists twice.
func summarizeOccupants(active []model.Session) (names, units string) {
	seen := make(map[string]bool, len(active))
	var nameParts, unitParts []string
	for _, sess := range active {
		if seen[sess.StudentID] {
			continue
		}
		seen[sess.StudentID] = true
		nameParts = append(nameParts, sess.Student.FullName)
		unit := sess.Student.Unit
		if unit == "" {
			unit = "Sin Curso"
		}
		unitParts = append(unitParts, unit)
	}
	return strings.Join(nameParts, "; "), strings.Join(unitParts, "; ")
}
