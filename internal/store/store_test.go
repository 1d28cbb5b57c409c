package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"machine-sales-backend/internal/model"
)

// newTestStore opens a dedicated in-memory SQLite database for one test.
// The database is named after the test so parallel tests never share state.
func newTestStore(t *testing.T) (*gorm.DB, Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.MachineType{},
		&model.MachineSubtype{},
		&model.Machine{},
		&model.Order{},
	))
	return db, NewGormStore(db, nil)
}

// seedCatalog creates one machine type, subtype and machine and returns their ids.
func seedCatalog(t *testing.T, s Store) (typeID, subtypeID, machineID int64) {
	t.Helper()
	ctx := context.Background()

	mt, err := s.CreateMachineType(ctx, MachineTypeInput{Name: "Excavator"})
	require.NoError(t, err)

	mst, err := s.CreateMachineSubtype(ctx, MachineSubtypeInput{Name: "Mini Excavator", MachineTypeID: &mt.ID})
	require.NoError(t, err)

	m, err := s.CreateMachine(ctx, MachineInput{Name: "Kubota U17", MachineTypeID: &mt.ID, MachineSubtypeID: &mst.ID})
	require.NoError(t, err)

	return mt.ID, mst.ID, m.ID
}

func validOrder(machineID, typeID, subtypeID int64) OrderInput {
	return OrderInput{
		Date:             "2025-01-01",
		MachineID:        machineID,
		MachineTypeID:    typeID,
		MachineSubtypeID: subtypeID,
		Source:           "Facebook",
		Price:            9500000,
		CostOfGood:       6700000,
	}
}

func TestMachineTypeCRUD(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateMachineType(ctx, MachineTypeInput{Name: ""})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")

	mt, err := s.CreateMachineType(ctx, MachineTypeInput{Name: "Tractor"})
	require.NoError(t, err)
	assert.Positive(t, mt.ID)

	got, err := s.GetMachineType(ctx, mt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tractor", got.Name)

	_, err = s.GetMachineType(ctx, 999)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	updated, err := s.UpdateMachineType(ctx, mt.ID, MachineTypeInput{Name: "Farm Tractor"})
	require.NoError(t, err)
	assert.Equal(t, "Farm Tractor", updated.Name)

	_, err = s.UpdateMachineType(ctx, 999, MachineTypeInput{Name: "Nope"})
	require.ErrorAs(t, err, &nf)

	// Names are not unique; a second row with the same name is fine.
	dup, err := s.CreateMachineType(ctx, MachineTypeInput{Name: "Farm Tractor"})
	require.NoError(t, err)
	assert.NotEqual(t, mt.ID, dup.ID)

	types, err := s.ListMachineTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 2)

	require.NoError(t, s.DeleteMachineType(ctx, dup.ID))
	err = s.DeleteMachineType(ctx, dup.ID)
	require.ErrorAs(t, err, &nf)
}

func TestMachineViewsCarryParentNames(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()
	_, subtypeID, machineID := seedCatalog(t, s)

	m, err := s.GetMachine(ctx, machineID)
	require.NoError(t, err)
	assert.Equal(t, "Excavator", m.MachineTypeName)
	assert.Equal(t, "Mini Excavator", m.MachineSubtypeName)

	mst, err := s.GetMachineSubtype(ctx, subtypeID)
	require.NoError(t, err)
	assert.Equal(t, "Excavator", mst.MachineTypeName)

	// A machine without parent links lists with empty parent names.
	orphan, err := s.CreateMachine(ctx, MachineInput{Name: "Unsorted"})
	require.NoError(t, err)

	view, err := s.GetMachine(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Empty(t, view.MachineTypeName)
	assert.Empty(t, view.MachineSubtypeName)

	machines, err := s.ListMachines(ctx, &subtypeID)
	require.NoError(t, err)
	require.Len(t, machines, 1)
	assert.Equal(t, machineID, machines[0].ID)
}

func TestCreateMachineRejectsDanglingParents(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()

	missing := int64(42)
	_, err := s.CreateMachine(ctx, MachineInput{Name: "Ghost", MachineTypeID: &missing})

	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"machine_type_id"}, ce.InvalidRefs)
}

func TestDeleteCatalogGuard(t *testing.T) {
	db, s := newTestStore(t)
	ctx := context.Background()
	typeID, subtypeID, machineID := seedCatalog(t, s)

	order, err := s.CreateOrder(ctx, validOrder(machineID, typeID, subtypeID))
	require.NoError(t, err)

	var ce *ConflictError
	for name, del := range map[string]func() error{
		"machine type":    func() error { return s.DeleteMachineType(ctx, typeID) },
		"machine subtype": func() error { return s.DeleteMachineSubtype(ctx, subtypeID) },
		"machine":         func() error { return s.DeleteMachine(ctx, machineID) },
	} {
		err := del()
		require.ErrorAs(t, err, &ce, name)
		require.Len(t, ce.Dependents, 1, name)
		assert.Equal(t, order.ID, ce.Dependents[0].ID, name)
		assert.Equal(t, "2025-01-01", ce.Dependents[0].Date, name)

		// Rejection is idempotent and leaves everything in place.
		err = del()
		require.ErrorAs(t, err, &ce, name)
	}

	var typeCount int64
	require.NoError(t, db.Model(&model.MachineType{}).Count(&typeCount).Error)
	assert.Equal(t, int64(1), typeCount)

	// Once the order is gone the deletes go through.
	require.NoError(t, s.DeleteOrder(ctx, order.ID))
	require.NoError(t, s.DeleteMachine(ctx, machineID))

	var machineCount int64
	require.NoError(t, db.Model(&model.Machine{}).Count(&machineCount).Error)
	assert.Equal(t, int64(0), machineCount)
}

func TestCreateOrderValidation(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()
	typeID, subtypeID, machineID := seedCatalog(t, s)

	_, err := s.CreateOrder(ctx, OrderInput{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	for _, field := range []string{"date", "machine_id", "machine_type_id", "machine_subtype_id", "source", "price", "cost_of_good"} {
		assert.Contains(t, ve.Fields, field)
	}

	bad := validOrder(machineID, typeID, subtypeID)
	bad.Date = "01/01/2025"
	_, err = s.CreateOrder(ctx, bad)
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "date")

	negativeShipping := -1.0
	bad = validOrder(machineID, typeID, subtypeID)
	bad.ShippingCost = &negativeShipping
	_, err = s.CreateOrder(ctx, bad)
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "shipping_cost")

	// Dangling references are a conflict, not a validation problem.
	dangling := validOrder(999, typeID, subtypeID)
	_, err = s.CreateOrder(ctx, dangling)
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"machine_id"}, ce.InvalidRefs)
}

func TestOrderRoundTrip(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()
	typeID, subtypeID, machineID := seedCatalog(t, s)

	in := validOrder(machineID, typeID, subtypeID)
	shipping := 50000.0
	location := "Yangon"
	in.ShippingCost = &shipping
	in.PurchaseLocation = &location

	created, err := s.CreateOrder(ctx, in)
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, 1, created.Quantity)

	got, err := s.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Date, got.Date)
	assert.Equal(t, in.Price, got.Price)
	assert.Equal(t, in.CostOfGood, got.CostOfGood)
	require.NotNil(t, got.ShippingCost)
	assert.Equal(t, shipping, *got.ShippingCost)
	assert.Equal(t, "Kubota U17", got.MachineName)
	assert.Equal(t, "Excavator", got.MachineTypeName)
	assert.Equal(t, "Mini Excavator", got.MachineSubtypeName)
}

func TestUpdateOrderFullReplace(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()
	typeID, subtypeID, machineID := seedCatalog(t, s)

	in := validOrder(machineID, typeID, subtypeID)
	note := "deliver before noon"
	in.Note = &note
	created, err := s.CreateOrder(ctx, in)
	require.NoError(t, err)

	replacement := validOrder(machineID, typeID, subtypeID)
	replacement.Price = 8000000
	updated, err := s.UpdateOrder(ctx, created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, 8000000.0, updated.Price)
	assert.Nil(t, updated.Note, "fields absent from a full replace are cleared")

	var nf *NotFoundError
	_, err = s.UpdateOrder(ctx, 999, replacement)
	require.ErrorAs(t, err, &nf)
}

func TestPatchOrder(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()
	typeID, subtypeID, machineID := seedCatalog(t, s)

	in := validOrder(machineID, typeID, subtypeID)
	note := "cash on delivery"
	in.Note = &note
	created, err := s.CreateOrder(ctx, in)
	require.NoError(t, err)

	newPrice := 7500000.0
	patched, err := s.PatchOrder(ctx, created.ID, OrderPatch{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, newPrice, patched.Price)
	require.NotNil(t, patched.Note, "untouched fields survive a patch")
	assert.Equal(t, note, *patched.Note)

	missing := int64(999)
	_, err = s.PatchOrder(ctx, created.ID, OrderPatch{MachineID: &missing})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"machine_id"}, ce.InvalidRefs)

	badDate := "yesterday"
	_, err = s.PatchOrder(ctx, created.ID, OrderPatch{Date: &badDate})
	var veErr *ValidationError
	require.ErrorAs(t, err, &veErr)
	assert.Contains(t, veErr.Fields, "date")
}

func TestListOrdersFilters(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()
	typeID, subtypeID, machineID := seedCatalog(t, s)

	mkOrder := func(date, source string, price float64, shipping *float64) int64 {
		in := validOrder(machineID, typeID, subtypeID)
		in.Date = date
		in.Source = source
		in.Price = price
		in.ShippingCost = shipping
		o, err := s.CreateOrder(ctx, in)
		require.NoError(t, err)
		return o.ID
	}

	cheapShipping := 10000.0
	first := mkOrder("2025-03-01", "Facebook", 9500000, nil)
	second := mkOrder("2025-03-01", "Walk-in", 8000000, &cheapShipping)
	third := mkOrder("2025-02-15", "Facebook Marketplace", 9500000, nil)

	// No filters: date descending, insertion order breaking ties.
	all, err := s.ListOrders(ctx, OrderFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{first, second, third}, []int64{all[0].ID, all[1].ID, all[2].ID})

	// A point price range matches only the exact price.
	price := 9500000.0
	byPrice, err := s.ListOrders(ctx, OrderFilters{PriceMin: &price, PriceMax: &price})
	require.NoError(t, err)
	require.Len(t, byPrice, 2)
	for _, o := range byPrice {
		assert.Equal(t, price, o.Price)
	}

	// NULL shipping cost passes any shipping-cost range filter.
	minShipping := 5000.0
	byShipping, err := s.ListOrders(ctx, OrderFilters{ShippingCostMin: &minShipping})
	require.NoError(t, err)
	assert.Len(t, byShipping, 3)

	highShipping := 20000.0
	byShipping, err = s.ListOrders(ctx, OrderFilters{ShippingCostMin: &highShipping})
	require.NoError(t, err)
	assert.Len(t, byShipping, 2, "the priced shipping row falls below the bound; NULL rows stay")

	// Case-sensitive substring match on source.
	substr := "Facebook"
	bySource, err := s.ListOrders(ctx, OrderFilters{Source: &substr})
	require.NoError(t, err)
	assert.Len(t, bySource, 2)

	// Inclusive date range.
	from, to := "2025-03-01", "2025-03-31"
	byDate, err := s.ListOrders(ctx, OrderFilters{DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	// Exact machine match.
	byMachine, err := s.ListOrders(ctx, OrderFilters{MachineID: &machineID})
	require.NoError(t, err)
	assert.Len(t, byMachine, 3)
}

func TestOrderSurvivesCatalogRename(t *testing.T) {
	_, s := newTestStore(t)
	ctx := context.Background()
	typeID, subtypeID, machineID := seedCatalog(t, s)

	created, err := s.CreateOrder(ctx, validOrder(machineID, typeID, subtypeID))
	require.NoError(t, err)

	_, err = s.UpdateMachine(ctx, machineID, MachineInput{Name: "Kubota U17-3"})
	require.NoError(t, err)

	got, err := s.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kubota U17-3", got.MachineName)
}

func TestDeleteOrderNotFound(t *testing.T) {
	_, s := newTestStore(t)

	err := s.DeleteOrder(context.Background(), 12345)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}
