package store

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"machine-sales-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	// Catalog: machine types
	ListMachineTypes(ctx context.Context) ([]model.MachineType, error)
	GetMachineType(ctx context.Context, id int64) (*model.MachineType, error)
	CreateMachineType(ctx context.Context, in MachineTypeInput) (*model.MachineType, error)
	UpdateMachineType(ctx context.Context, id int64, in MachineTypeInput) (*model.MachineType, error)
	DeleteMachineType(ctx context.Context, id int64) error

	// Catalog: machine subtypes
	ListMachineSubtypes(ctx context.Context) ([]MachineSubtypeView, error)
	GetMachineSubtype(ctx context.Context, id int64) (*MachineSubtypeView, error)
	CreateMachineSubtype(ctx context.Context, in MachineSubtypeInput) (*model.MachineSubtype, error)
	UpdateMachineSubtype(ctx context.Context, id int64, in MachineSubtypeInput) (*model.MachineSubtype, error)
	DeleteMachineSubtype(ctx context.Context, id int64) error

	// Catalog: machines
	ListMachines(ctx context.Context, subtypeID *int64) ([]MachineView, error)
	GetMachine(ctx context.Context, id int64) (*MachineView, error)
	CreateMachine(ctx context.Context, in MachineInput) (*model.Machine, error)
	UpdateMachine(ctx context.Context, id int64, in MachineInput) (*model.Machine, error)
	DeleteMachine(ctx context.Context, id int64) error

	// Orders
	ListOrders(ctx context.Context, f OrderFilters) ([]OrderView, error)
	GetOrder(ctx context.Context, id int64) (*OrderView, error)
	CreateOrder(ctx context.Context, in OrderInput) (*model.Order, error)
	UpdateOrder(ctx context.Context, id int64, in OrderInput) (*model.Order, error)
	PatchOrder(ctx context.Context, id int64, p OrderPatch) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, log *logrus.Logger) Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &gormStore{db: db, log: log}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// wrap passes typed domain errors through untouched and converts anything else
// into a logged StorageError.
func (s *gormStore) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &ce) {
		return err
	}
	s.log.WithFields(logrus.Fields{"op": op}).Error(err.Error())
	return &StorageError{Op: op, Err: err}
}
