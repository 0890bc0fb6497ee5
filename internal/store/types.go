package store

import (
	"time"

	"restroom-queue-backend/internal/model"
)

// StallFilter narrows ListStalls. Zero values mean "no filter".
type StallFilter struct {
	Status model.StallStatus
	Gender string
}

// HistoryFilter narrows ListHistory to a stall and/or a time window.
type HistoryFilter struct {
	StallID int64
	From    *time.Time
	To      *time.Time
	Limit   int
}

// ReleaseResult reports where a released student was and what the stall's
// status became, so the caller can display it and notify on a freed stall.
type ReleaseResult struct {
	StallID     int64             `json:"stallId"`
	StallStatus model.StallStatus `json:"stallStatus"`
}

// SeedMatch pairs the head of a gender lane with the first free stall of
// that gender: FIFO + first-fit, nothing smarter. The caller may extend
// the group with further same-gender entries before committing.
type SeedMatch struct {
	Entry model.WaitingEntry `json:"entry"`
	Stall model.Stall        `json:"stall"`
}
