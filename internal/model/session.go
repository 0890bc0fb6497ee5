package model

import "time"

// Exit conditions form a closed set. ExitMaintenance is reserved for
// sessions force-closed when a stall enters maintenance.
const (
	ExitGood        = "Bueno"
	ExitFair        = "Regular"
	ExitBad         = "Malo"
	ExitMaintenance = "Mantenimiento"
)

// ValidExitCondition reports whether cond is one a caller may close a
// session with. ExitMaintenance is excluded: only the maintenance path
// sets it.
func ValidExitCondition(cond string) bool {
	return cond == ExitGood || cond == ExitFair || cond == ExitBad
}

// Session records one student's use of one stall, from entry to exit.
// A null ExitedAt means the session is active; a stall's Occupied status is
// exactly "it has at least one active session".
type Session struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	StudentID     string     `gorm:"size:36;index;not null" json:"studentId"`
	StallID       int64      `gorm:"index;not null" json:"stallId"`
	EnteredAt     time.Time  `gorm:"index;not null" json:"enteredAt"`
	ExitedAt      *time.Time `gorm:"index" json:"exitedAt"`
	ExitCondition string     `gorm:"size:32" json:"exitCondition"`
	EntryNotes    string     `gorm:"size:512" json:"entryNotes"`
	ExitNotes     string     `gorm:"size:512" json:"exitNotes"`

	// Associations
	Student Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Stall   Stall   `gorm:"foreignKey:StallID" json:"stall,omitempty"`
}
