package model

import "time"

// MachineType is a catalog entity grouping machines by their broad kind.
// Names are free text and deliberately not unique.
type MachineType struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Subtypes []MachineSubtype `gorm:"foreignKey:MachineTypeID" json:"-"`
	Machines []Machine        `gorm:"foreignKey:MachineTypeID" json:"-"`
}
