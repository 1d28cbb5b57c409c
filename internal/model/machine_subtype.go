package model

import "time"

// MachineSubtype is a catalog entity refining a MachineType. The parent link
// is optional; some catalog rows predate the type hierarchy.
type MachineSubtype struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	MachineTypeID *int64    `gorm:"index" json:"machine_type_id"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Machines []Machine `gorm:"foreignKey:MachineSubtypeID" json:"-"`
}
