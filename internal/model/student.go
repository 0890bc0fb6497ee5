package model

import "time"

// Student gender codes, following the roster convention: "M" (mujer) for
// girls, "H" (hombre) for boys.
const (
	GenderFemale = "M"
	GenderMale   = "H"
)

// Student is a roster entry. The queue core only reads it: identity, display
// name, unit (class group) and gender.
type Student struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	FullName  string    `gorm:"size:256;not null" json:"fullName"`
	Unit      string    `gorm:"size:128;not null" json:"unit"`
	Gender    string    `gorm:"size:8;not null" json:"gender"`
	CreatedAt time.Time `json:"createdAt"`
}
