package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"machine-sales-backend/internal/model"
)

// MachineTypeInput carries the writable fields of a machine type.
type MachineTypeInput struct {
	Name string `json:"name"`
}

// MachineSubtypeInput carries the writable fields of a machine subtype.
type MachineSubtypeInput struct {
	Name          string `json:"name"`
	MachineTypeID *int64 `json:"machine_type_id"`
}

// MachineInput carries the writable fields of a machine.
type MachineInput struct {
	Name             string `json:"name"`
	MachineTypeID    *int64 `json:"machine_type_id"`
	MachineSubtypeID *int64 `json:"machine_subtype_id"`
}

// MachineSubtypeView is a subtype row with its parent type name joined in.
type MachineSubtypeView struct {
	model.MachineSubtype
	MachineTypeName string `json:"machine_type_name"`
}

// MachineView is a machine row with both parent names joined in. Missing
// parents yield empty names, not errors.
type MachineView struct {
	model.Machine
	MachineTypeName    string `json:"machine_type_name"`
	MachineSubtypeName string `json:"machine_subtype_name"`
}

func requireName(name string) error {
	if name == "" {
		return &ValidationError{Fields: map[string]string{"name": "name is required"}}
	}
	return nil
}

// --- Machine types ---

func (s *gormStore) ListMachineTypes(ctx context.Context) ([]model.MachineType, error) {
	var types []model.MachineType
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&types).Error; err != nil {
		return nil, s.wrap("list machine types", err)
	}
	return types, nil
}

func (s *gormStore) GetMachineType(ctx context.Context, id int64) (*model.MachineType, error) {
	var mt model.MachineType
	err := s.db.WithContext(ctx).First(&mt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: string(KindMachineType), ID: id}
	}
	if err != nil {
		return nil, s.wrap("get machine type", err)
	}
	return &mt, nil
}

func (s *gormStore) CreateMachineType(ctx context.Context, in MachineTypeInput) (*model.MachineType, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	mt := model.MachineType{Name: in.Name}
	if err := s.db.WithContext(ctx).Create(&mt).Error; err != nil {
		return nil, s.wrap("create machine type", err)
	}
	return &mt, nil
}

func (s *gormStore) UpdateMachineType(ctx context.Context, id int64, in MachineTypeInput) (*model.MachineType, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	var mt model.MachineType
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.MachineType{}).Where("id = ?", id).Update("name", in.Name)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Resource: string(KindMachineType), ID: id}
		}
		return tx.First(&mt, id).Error
	})
	if err != nil {
		return nil, s.wrap("update machine type", err)
	}
	return &mt, nil
}

func (s *gormStore) DeleteMachineType(ctx context.Context, id int64) error {
	return s.deleteCatalogRow(ctx, KindMachineType, &model.MachineType{}, id)
}

// --- Machine subtypes ---

func (s *gormStore) subtypeQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("machine_subtypes").
		Select("machine_subtypes.*, machine_types.name AS machine_type_name").
		Joins("LEFT JOIN machine_types ON machine_types.id = machine_subtypes.machine_type_id")
}

func (s *gormStore) ListMachineSubtypes(ctx context.Context) ([]MachineSubtypeView, error) {
	var views []MachineSubtypeView
	if err := s.subtypeQuery(ctx).Order("machine_subtypes.id ASC").Scan(&views).Error; err != nil {
		return nil, s.wrap("list machine subtypes", err)
	}
	return views, nil
}

func (s *gormStore) GetMachineSubtype(ctx context.Context, id int64) (*MachineSubtypeView, error) {
	var v MachineSubtypeView
	err := s.subtypeQuery(ctx).Where("machine_subtypes.id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: string(KindMachineSubtype), ID: id}
	}
	if err != nil {
		return nil, s.wrap("get machine subtype", err)
	}
	return &v, nil
}

func (s *gormStore) CreateMachineSubtype(ctx context.Context, in MachineSubtypeInput) (*model.MachineSubtype, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	var mst model.MachineSubtype
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkParentRefs(tx, in.MachineTypeID, nil); err != nil {
			return err
		}
		mst = model.MachineSubtype{Name: in.Name, MachineTypeID: in.MachineTypeID}
		return tx.Create(&mst).Error
	})
	if err != nil {
		return nil, s.wrap("create machine subtype", err)
	}
	return &mst, nil
}

func (s *gormStore) UpdateMachineSubtype(ctx context.Context, id int64, in MachineSubtypeInput) (*model.MachineSubtype, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	var mst model.MachineSubtype
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkParentRefs(tx, in.MachineTypeID, nil); err != nil {
			return err
		}
		fields := map[string]any{"name": in.Name}
		if in.MachineTypeID != nil {
			fields["machine_type_id"] = *in.MachineTypeID
		}
		res := tx.Model(&model.MachineSubtype{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Resource: string(KindMachineSubtype), ID: id}
		}
		return tx.First(&mst, id).Error
	})
	if err != nil {
		return nil, s.wrap("update machine subtype", err)
	}
	return &mst, nil
}

func (s *gormStore) DeleteMachineSubtype(ctx context.Context, id int64) error {
	return s.deleteCatalogRow(ctx, KindMachineSubtype, &model.MachineSubtype{}, id)
}

// --- Machines ---

func (s *gormStore) machineQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("machines").
		Select("machines.*, machine_types.name AS machine_type_name, machine_subtypes.name AS machine_subtype_name").
		Joins("LEFT JOIN machine_types ON machine_types.id = machines.machine_type_id").
		Joins("LEFT JOIN machine_subtypes ON machine_subtypes.id = machines.machine_subtype_id")
}

func (s *gormStore) ListMachines(ctx context.Context, subtypeID *int64) ([]MachineView, error) {
	q := s.machineQuery(ctx)
	if subtypeID != nil {
		q = q.Where("machines.machine_subtype_id = ?", *subtypeID)
	}
	var views []MachineView
	if err := q.Order("machines.id ASC").Scan(&views).Error; err != nil {
		return nil, s.wrap("list machines", err)
	}
	return views, nil
}

func (s *gormStore) GetMachine(ctx context.Context, id int64) (*MachineView, error) {
	var v MachineView
	err := s.machineQuery(ctx).Where("machines.id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: string(KindMachine), ID: id}
	}
	if err != nil {
		return nil, s.wrap("get machine", err)
	}
	return &v, nil
}

func (s *gormStore) CreateMachine(ctx context.Context, in MachineInput) (*model.Machine, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	var m model.Machine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkParentRefs(tx, in.MachineTypeID, in.MachineSubtypeID); err != nil {
			return err
		}
		m = model.Machine{
			Name:             in.Name,
			MachineTypeID:    in.MachineTypeID,
			MachineSubtypeID: in.MachineSubtypeID,
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, s.wrap("create machine", err)
	}
	return &m, nil
}

func (s *gormStore) UpdateMachine(ctx context.Context, id int64, in MachineInput) (*model.Machine, error) {
	if err := requireName(in.Name); err != nil {
		return nil, err
	}
	var m model.Machine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkParentRefs(tx, in.MachineTypeID, in.MachineSubtypeID); err != nil {
			return err
		}
		fields := map[string]any{"name": in.Name}
		if in.MachineTypeID != nil {
			fields["machine_type_id"] = *in.MachineTypeID
		}
		if in.MachineSubtypeID != nil {
			fields["machine_subtype_id"] = *in.MachineSubtypeID
		}
		res := tx.Model(&model.Machine{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Resource: string(KindMachine), ID: id}
		}
		return tx.First(&m, id).Error
	})
	if err != nil {
		return nil, s.wrap("update machine", err)
	}
	return &m, nil
}

func (s *gormStore) DeleteMachine(ctx context.Context, id int64) error {
	return s.deleteCatalogRow(ctx, KindMachine, &model.Machine{}, id)
}

// deleteCatalogRow runs the dependency guard and the delete inside one
// transaction so no order can slip in between the check and the mutation.
func (s *gormStore) deleteCatalogRow(ctx context.Context, kind CatalogKind, m any, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkNoDependents(tx, kind, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Resource: string(kind), ID: id}
		}
		return nil
	})
	return s.wrap("delete "+string(kind), err)
}
