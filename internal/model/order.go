package model

import "time"

// Order records a single sale. The machine, type and subtype references are
// mandatory and validated against the catalog at write time; the storage-level
// foreign keys are not relied upon for user-facing errors.
//
// Date is stored as a plain YYYY-MM-DD string so inclusive range filters
// compare lexically, matching how the frontend sends dates.
type Order struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	Date             string    `gorm:"size:10;not null;index" json:"date"`
	MachineID        int64     `gorm:"not null;index" json:"machine_id"`
	MachineTypeID    int64     `gorm:"not null;index" json:"machine_type_id"`
	MachineSubtypeID int64     `gorm:"not null;index" json:"machine_subtype_id"`
	Source           string    `gorm:"size:128;not null" json:"source"`
	Price            float64   `gorm:"not null" json:"price"`
	CostOfGood       float64   `gorm:"not null" json:"cost_of_good"`
	ShippingCost     *float64  `json:"shipping_cost"`
	PurchaseLocation *string   `gorm:"size:256" json:"purchase_location"`
	Phone            *string   `gorm:"size:32" json:"phone"`
	CustomerName     *string   `gorm:"size:128" json:"customer_name"`
	Note             *string   `json:"note"`
	Quantity         int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}
