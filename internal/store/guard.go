package store

import (
	"fmt"

	"gorm.io/gorm"

	"machine-sales-backend/internal/model"
)

// CatalogKind identifies one of the three catalog tables for guard checks.
type CatalogKind string

const (
	KindMachine        CatalogKind = "machine"
	KindMachineType    CatalogKind = "machine type"
	KindMachineSubtype CatalogKind = "machine subtype"
)

// orderColumnFor maps a catalog kind to the orders column referencing it.
func orderColumnFor(kind CatalogKind) string {
	switch kind {
	case KindMachine:
		return "machine_id"
	case KindMachineType:
		return "machine_type_id"
	default:
		return "machine_subtype_id"
	}
}

func rowExists(tx *gorm.DB, m any, id int64) (bool, error) {
	var n int64
	if err := tx.Model(m).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// checkOrderRefs verifies that all three catalog rows an order points at
// exist. The check runs at the application layer because storage-level
// foreign keys are not trusted to produce user-facing errors. Every invalid
// reference is named in the resulting conflict, not just the first.
func checkOrderRefs(tx *gorm.DB, machineID, typeID, subtypeID int64) error {
	var invalid []string

	ok, err := rowExists(tx, &model.Machine{}, machineID)
	if err != nil {
		return err
	}
	if !ok {
		invalid = append(invalid, "machine_id")
	}

	ok, err = rowExists(tx, &model.MachineType{}, typeID)
	if err != nil {
		return err
	}
	if !ok {
		invalid = append(invalid, "machine_type_id")
	}

	ok, err = rowExists(tx, &model.MachineSubtype{}, subtypeID)
	if err != nil {
		return err
	}
	if !ok {
		invalid = append(invalid, "machine_subtype_id")
	}

	if len(invalid) > 0 {
		return &ConflictError{
			Message:     "referenced catalog rows do not exist",
			InvalidRefs: invalid,
		}
	}
	return nil
}

// checkParentRefs soft-validates the optional parent links carried by
// machines and subtypes. Nil links are fine; a supplied link must resolve.
func checkParentRefs(tx *gorm.DB, typeID, subtypeID *int64) error {
	var invalid []string

	if typeID != nil {
		ok, err := rowExists(tx, &model.MachineType{}, *typeID)
		if err != nil {
			return err
		}
		if !ok {
			invalid = append(invalid, "machine_type_id")
		}
	}
	if subtypeID != nil {
		ok, err := rowExists(tx, &model.MachineSubtype{}, *subtypeID)
		if err != nil {
			return err
		}
		if !ok {
			invalid = append(invalid, "machine_subtype_id")
		}
	}

	if len(invalid) > 0 {
		return &ConflictError{
			Message:     "referenced catalog rows do not exist",
			InvalidRefs: invalid,
		}
	}
	return nil
}

// checkNoDependents rejects a catalog delete while any order still references
// the row. The conflict carries the referencing order summaries so the
// frontend can show which sales block the delete.
func checkNoDependents(tx *gorm.DB, kind CatalogKind, id int64) error {
	var refs []OrderRef
	col := orderColumnFor(kind)
	if err := tx.Model(&model.Order{}).
		Select("id, date").
		Where(col+" = ?", id).
		Order("date DESC, id ASC").
		Scan(&refs).Error; err != nil {
		return err
	}
	if len(refs) > 0 {
		return &ConflictError{
			Message:    fmt.Sprintf("cannot delete %s %d: referenced by %d order(s)", kind, id, len(refs)),
			Dependents: refs,
		}
	}
	return nil
}
