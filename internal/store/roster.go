package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"restroom-queue-backend/internal/model"
)

// AddStudents inserts new roster rows, skipping any student whose
// name+unit pair already exists (case-insensitive), and returns how many
// were actually inserted.
func (s *gormStore) AddStudents(ctx context.Context, students []model.Student) (int, error) {
	var existing []model.Student
	if err := s.db.WithContext(ctx).Select("full_name", "unit").Find(&existing).Error; err != nil {
		return 0, fmt.Errorf("failed to load existing students: %w", err)
	}
	existingKeys := make(map[string]bool, len(existing))
	for _, st := range existing {
		existingKeys[rosterKey(st)] = true
	}

	var inserts []model.Student
	for _, st := range students {
		st.FullName = strings.TrimSpace(st.FullName)
		st.Unit = strings.TrimSpace(st.Unit)
		st.Gender = strings.ToUpper(strings.TrimSpace(st.Gender))
		if st.FullName == "" {
			return 0, fmt.Errorf("student with empty name: %w", ErrInvalidState)
		}
		if st.Gender != model.GenderFemale && st.Gender != model.GenderMale {
			return 0, fmt.Errorf("student %q has gender %q: %w", st.FullName, st.Gender, ErrInvalidState)
		}

		key := rosterKey(st)
		if existingKeys[key] {
			continue
		}
		existingKeys[key] = true

		if st.ID == "" {
			st.ID = uuid.NewString()
		}
		inserts = append(inserts, st)
	}

	if len(inserts) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&inserts).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert students: %w", err)
	}
	return len(inserts), nil
}

// ListStudents returns the roster ordered by unit, then name.
func (s *gormStore) ListStudents(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := s.db.WithContext(ctx).Order("unit, full_name").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func rosterKey(st model.Student) string {
	return strings.ToLower(st.FullName) + "|" + strings.ToLower(st.Unit)
}
