package model

import "time"

// StallStatus is the aggregate state of a stall. Occupied and Free are
// derived from the stall's active sessions; Maintenance is only ever set
// and cleared explicitly.
type StallStatus string

const (
	StallFree        StallStatus = "libre"
	StallOccupied    StallStatus = "ocupado"
	StallMaintenance StallStatus = "mantenimiento"
)

// Stall represents a single restroom unit.
//
// OccupiedBy and OccupantUnits are denormalized display caches rebuilt from
// the stall's active sessions on every open/close; they are never patched
// incrementally.
type Stall struct {
	ID                int64       `gorm:"primaryKey" json:"id"`
	DisplayName       string      `gorm:"size:256;uniqueIndex;not null" json:"displayName"`
	Gender            string      `gorm:"size:8;index;not null" json:"gender"`
	Status            StallStatus `gorm:"size:32;index;not null;default:libre" json:"status"`
	OccupiedBy        string      `gorm:"size:1024" json:"occupiedBy"`
	OccupantUnits     string      `gorm:"size:1024" json:"occupantUnits"`
	MaintenanceReason string      `gorm:"size:512" json:"maintenanceReason"`
	StatusChangedAt   *time.Time  `json:"statusChangedAt"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}
