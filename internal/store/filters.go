package store

import "gorm.io/gorm"

// OrderFilters is the optional filter set accepted by the order listing.
// Absent fields add no constraint; present fields combine with AND. Every
// value is passed as a bound parameter, never spliced into the query text.
type OrderFilters struct {
	DateFrom         *string  `form:"dateFrom"`
	DateTo           *string  `form:"dateTo"`
	MachineID        *int64   `form:"machineId"`
	MachineTypeID    *int64   `form:"machineTypeId"`
	MachineSubtypeID *int64   `form:"machineSubtypeId"`
	Source           *string  `form:"source"`
	PriceMin         *float64 `form:"priceMin"`
	PriceMax         *float64 `form:"priceMax"`
	CostOfGoodMin    *float64 `form:"costOfGoodMin"`
	CostOfGoodMax    *float64 `form:"costOfGoodMax"`
	ShippingCostMin  *float64 `form:"shippingCostMin"`
	ShippingCostMax  *float64 `form:"shippingCostMax"`
	PurchaseLocation *string  `form:"purchaseLocation"`
}

// Apply chains the present filters onto an order query. Empty-string text
// filters are treated as absent, matching how the frontend sends blank
// inputs. A NULL shipping_cost passes any shipping-cost range filter.
func (f OrderFilters) Apply(q *gorm.DB) *gorm.DB {
	if f.DateFrom != nil && *f.DateFrom != "" {
		q = q.Where("orders.date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil && *f.DateTo != "" {
		q = q.Where("orders.date <= ?", *f.DateTo)
	}
	if f.MachineID != nil {
		q = q.Where("orders.machine_id = ?", *f.MachineID)
	}
	if f.MachineTypeID != nil {
		q = q.Where("orders.machine_type_id = ?", *f.MachineTypeID)
	}
	if f.MachineSubtypeID != nil {
		q = q.Where("orders.machine_subtype_id = ?", *f.MachineSubtypeID)
	}
	if f.Source != nil && *f.Source != "" {
		q = q.Where("orders.source LIKE ?", "%"+*f.Source+"%")
	}
	if f.PriceMin != nil {
		q = q.Where("orders.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("orders.price <= ?", *f.PriceMax)
	}
	if f.CostOfGoodMin != nil {
		q = q.Where("orders.cost_of_good >= ?", *f.CostOfGoodMin)
	}
	if f.CostOfGoodMax != nil {
		q = q.Where("orders.cost_of_good <= ?", *f.CostOfGoodMax)
	}
	if f.ShippingCostMin != nil {
		q = q.Where("(orders.shipping_cost >= ? OR orders.shipping_cost IS NULL)", *f.ShippingCostMin)
	}
	if f.ShippingCostMax != nil {
		q = q.Where("(orders.shipping_cost <= ? OR orders.shipping_cost IS NULL)", *f.ShippingCostMax)
	}
	if f.PurchaseLocation != nil && *f.PurchaseLocation != "" {
		q = q.Where("orders.purchase_location LIKE ?", "%"+*f.PurchaseLocation+"%")
	}
	return q
}
