package model

import "time"

// Machine represents a sellable machine in the catalog. Type and subtype links
// are optional on the machine itself; orders pin all three references.
type Machine struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:128;not null" json:"name"`
	MachineTypeID    *int64    `gorm:"index" json:"machine_type_id"`
	MachineSubtypeID *int64    `gorm:"index" json:"machine_subtype_id"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}
