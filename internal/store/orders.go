package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"machine-sales-backend/internal/model"
)

const dateLayout = "2006-01-02"

// OrderInput carries the writable fields of an order. Create and full-replace
// update share the same validation.
type OrderInput struct {
	Date             string   `json:"date"`
	MachineID        int64    `json:"machine_id"`
	MachineTypeID    int64    `json:"machine_type_id"`
	MachineSubtypeID int64    `json:"machine_subtype_id"`
	Source           string   `json:"source"`
	Price            float64  `json:"price"`
	CostOfGood       float64  `json:"cost_of_good"`
	ShippingCost     *float64 `json:"shipping_cost"`
	PurchaseLocation *string  `json:"purchase_location"`
	Phone            *string  `json:"phone"`
	CustomerName     *string  `json:"customer_name"`
	Note             *string  `json:"note"`
	Quantity         *int     `json:"quantity"`
}

func (in *OrderInput) validate() error {
	fields := map[string]string{}
	if in.Date == "" {
		fields["date"] = "date is required"
	} else if _, err := time.Parse(dateLayout, in.Date); err != nil {
		fields["date"] = "date must be formatted YYYY-MM-DD"
	}
	if in.MachineID == 0 {
		fields["machine_id"] = "machine is required"
	}
	if in.MachineTypeID == 0 {
		fields["machine_type_id"] = "machine type is required"
	}
	if in.MachineSubtypeID == 0 {
		fields["machine_subtype_id"] = "machine subtype is required"
	}
	if in.Source == "" {
		fields["source"] = "source is required"
	}
	if in.Price <= 0 {
		fields["price"] = "price must be a positive number"
	}
	if in.CostOfGood <= 0 {
		fields["cost_of_good"] = "cost of good must be a positive number"
	}
	if in.ShippingCost != nil && *in.ShippingCost < 0 {
		fields["shipping_cost"] = "shipping cost must not be negative"
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		fields["quantity"] = "quantity must be at least 1"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (in *OrderInput) toModel() model.Order {
	o := model.Order{
		Date:             in.Date,
		MachineID:        in.MachineID,
		MachineTypeID:    in.MachineTypeID,
		MachineSubtypeID: in.MachineSubtypeID,
		Source:           in.Source,
		Price:            in.Price,
		CostOfGood:       in.CostOfGood,
		ShippingCost:     in.ShippingCost,
		PurchaseLocation: in.PurchaseLocation,
		Phone:            in.Phone,
		CustomerName:     in.CustomerName,
		Note:             in.Note,
		Quantity:         1,
	}
	if in.Quantity != nil {
		o.Quantity = *in.Quantity
	}
	return o
}

// OrderView is an order row enriched with the denormalized catalog names.
// A missing parent row yields an empty name, never an error, so orders stay
// visible even after the catalog changed underneath them.
type OrderView struct {
	model.Order
	MachineName        string `json:"machine_name"`
	MachineTypeName    string `json:"machine_type_name"`
	MachineSubtypeName string `json:"machine_subtype_name"`
}

func (s *gormStore) orderQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("orders").
		Select("orders.*, m.name AS machine_name, mt.name AS machine_type_name, mst.name AS machine_subtype_name").
		Joins("LEFT JOIN machines m ON orders.machine_id = m.id").
		Joins("LEFT JOIN machine_types mt ON orders.machine_type_id = mt.id").
		Joins("LEFT JOIN machine_subtypes mst ON orders.machine_subtype_id = mst.id")
}

// ListOrders returns the filtered, joined order listing, newest date first
// with insertion order breaking ties.
func (s *gormStore) ListOrders(ctx context.Context, f OrderFilters) ([]OrderView, error) {
	var views []OrderView
	q := f.Apply(s.orderQuery(ctx))
	if err := q.Order("orders.date DESC, orders.id ASC").Scan(&views).Error; err != nil {
		return nil, s.wrap("list orders", err)
	}
	return views, nil
}

func (s *gormStore) GetOrder(ctx context.Context, id int64) (*OrderView, error) {
	var v OrderView
	err := s.orderQuery(ctx).Where("orders.id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "order", ID: id}
	}
	if err != nil {
		return nil, s.wrap("get order", err)
	}
	return &v, nil
}

// CreateOrder validates the input, confirms all three catalog references
// inside the insert transaction and stores the row. Field problems surface as
// ValidationError, dangling references as ConflictError; callers render them
// differently.
func (s *gormStore) CreateOrder(ctx context.Context, in OrderInput) (*model.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var o model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkOrderRefs(tx, in.MachineID, in.MachineTypeID, in.MachineSubtypeID); err != nil {
			return err
		}
		o = in.toModel()
		return tx.Create(&o).Error
	})
	if err != nil {
		return nil, s.wrap("create order", err)
	}
	return &o, nil
}

// UpdateOrder is the canonical whole-record replace: every writable field is
// overwritten, optional fields not supplied become NULL.
func (s *gormStore) UpdateOrder(ctx context.Context, id int64, in OrderInput) (*model.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var o model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Order
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order", ID: id}
			}
			return err
		}
		if err := checkOrderRefs(tx, in.MachineID, in.MachineTypeID, in.MachineSubtypeID); err != nil {
			return err
		}
		o = in.toModel()
		o.ID = id
		o.CreatedAt = existing.CreatedAt
		return tx.Save(&o).Error
	})
	if err != nil {
		return nil, s.wrap("update order", err)
	}
	return &o, nil
}

// OrderPatch is a partial update: only non-nil fields are written. The
// statement is built from the present keys alone.
type OrderPatch struct {
	Date             *string  `json:"date"`
	MachineID        *int64   `json:"machine_id"`
	MachineTypeID    *int64   `json:"machine_type_id"`
	MachineSubtypeID *int64   `json:"machine_subtype_id"`
	Source           *string  `json:"source"`
	Price            *float64 `json:"price"`
	CostOfGood       *float64 `json:"cost_of_good"`
	ShippingCost     *float64 `json:"shipping_cost"`
	PurchaseLocation *string  `json:"purchase_location"`
	Phone            *string  `json:"phone"`
	CustomerName     *string  `json:"customer_name"`
	Note             *string  `json:"note"`
	Quantity         *int     `json:"quantity"`
}

func (p *OrderPatch) validate() error {
	fields := map[string]string{}
	if p.Date != nil {
		if *p.Date == "" {
			fields["date"] = "date is required"
		} else if _, err := time.Parse(dateLayout, *p.Date); err != nil {
			fields["date"] = "date must be formatted YYYY-MM-DD"
		}
	}
	if p.Source != nil && *p.Source == "" {
		fields["source"] = "source is required"
	}
	if p.Price != nil && *p.Price <= 0 {
		fields["price"] = "price must be a positive number"
	}
	if p.CostOfGood != nil && *p.CostOfGood <= 0 {
		fields["cost_of_good"] = "cost of good must be a positive number"
	}
	if p.ShippingCost != nil && *p.ShippingCost < 0 {
		fields["shipping_cost"] = "shipping cost must not be negative"
	}
	if p.Quantity != nil && *p.Quantity < 1 {
		fields["quantity"] = "quantity must be at least 1"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// fields collects the present keys into an update map.
func (p *OrderPatch) fields() map[string]any {
	m := map[string]any{}
	if p.Date != nil {
		m["date"] = *p.Date
	}
	if p.MachineID != nil {
		m["machine_id"] = *p.MachineID
	}
	if p.MachineTypeID != nil {
		m["machine_type_id"] = *p.MachineTypeID
	}
	if p.MachineSubtypeID != nil {
		m["machine_subtype_id"] = *p.MachineSubtypeID
	}
	if p.Source != nil {
		m["source"] = *p.Source
	}
	if p.Price != nil {
		m["price"] = *p.Price
	}
	if p.CostOfGood != nil {
		m["cost_of_good"] = *p.CostOfGood
	}
	if p.ShippingCost != nil {
		m["shipping_cost"] = *p.ShippingCost
	}
	if p.PurchaseLocation != nil {
		m["purchase_location"] = *p.PurchaseLocation
	}
	if p.Phone != nil {
		m["phone"] = *p.Phone
	}
	if p.CustomerName != nil {
		m["customer_name"] = *p.CustomerName
	}
	if p.Note != nil {
		m["note"] = *p.Note
	}
	if p.Quantity != nil {
		m["quantity"] = *p.Quantity
	}
	return m
}

// PatchOrder applies only the supplied fields. When any catalog reference is
// part of the patch, the guard re-checks the merged reference set.
func (s *gormStore) PatchOrder(ctx context.Context, id int64, p OrderPatch) (*model.Order, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	var o model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Order
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "order", ID: id}
			}
			return err
		}

		if p.MachineID != nil || p.MachineTypeID != nil || p.MachineSubtypeID != nil {
			machineID := existing.MachineID
			typeID := existing.MachineTypeID
			subtypeID := existing.MachineSubtypeID
			if p.MachineID != nil {
				machineID = *p.MachineID
			}
			if p.MachineTypeID != nil {
				typeID = *p.MachineTypeID
			}
			if p.MachineSubtypeID != nil {
				subtypeID = *p.MachineSubtypeID
			}
			if err := checkOrderRefs(tx, machineID, typeID, subtypeID); err != nil {
				return err
			}
		}

		fields := p.fields()
		if len(fields) > 0 {
			if err := tx.Model(&model.Order{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}
		return tx.First(&o, id).Error
	})
	if err != nil {
		return nil, s.wrap("patch order", err)
	}
	return &o, nil
}

// DeleteOrder removes an order unconditionally; orders are leaves with no
// downstream references.
func (s *gormStore) DeleteOrder(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Order{}, id)
	if res.Error != nil {
		return s.wrap("delete order", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "order", ID: id}
	}
	return nil
}
