package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restroom-queue-backend/internal/model"
	"restroom-queue-backend/internal/parse"
)

// SeedStalls upserts the configured stalls by display name. The gender lane
// is parsed from the name's marker; existing rows keep their status and
// occupants.
func SeedStalls(db *gorm.DB, names []string) error {
	if len(names) == 0 {
		return nil
	}

	stalls := make([]model.Stall, 0, len(names))
	for _, name := range names {
		parsed, err := parse.ParseName(name)
		if err != nil {
			return fmt.Errorf("invalid stall name %q: %w", name, err)
		}
		stalls = append(stalls, model.Stall{
			DisplayName: name,
			Gender:      parsed.Gender,
			Status:      model.StallFree,
		})
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "display_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"gender", "updated_at"}),
		}).Create(&stalls).Error
	})
}
