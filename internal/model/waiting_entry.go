package model

import "time"

// EntryStatus is the lifecycle state of a waiting entry.
type EntryStatus string

const (
	EntryWaiting   EntryStatus = "esperando"
	EntryMatched   EntryStatus = "atendido"
	EntryCancelled EntryStatus = "cancelado"
)

// WaitingEntry is one student's pending request for a stall. FIFO order
// within a gender lane is requested_at ascending, id as tiebreak.
// Matched and cancelled entries stay in the table for audit.
type WaitingEntry struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	StudentID   string      `gorm:"size:36;index;not null" json:"studentId"`
	Gender      string      `gorm:"size:8;index;not null" json:"gender"`
	Status      EntryStatus `gorm:"size:32;index;not null;default:esperando" json:"status"`
	RequestedAt time.Time   `gorm:"index;not null" json:"requestedAt"`

	// Associations
	Student Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}
