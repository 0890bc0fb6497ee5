package model

import "time"

// Queue event kinds. The table is append-only: events are written alongside
// queue transitions and never updated.
const (
	EventEnqueued  = "enqueued"
	EventMatched   = "matched"
	EventCancelled = "cancelled"
	EventCleanup   = "cleanup"
)

// QueueEvent is an append-only audit record of a waiting-queue transition.
type QueueEvent struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	EntryID   int64     `gorm:"index;not null" json:"entryId"`
	StudentID string    `gorm:"size:36;index;not null" json:"studentId"`
	Event     string    `gorm:"size:32;not null" json:"event"`
	CreatedAt time.Time `json:"createdAt"`
}
