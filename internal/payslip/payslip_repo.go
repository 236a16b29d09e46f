package payslip

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Save(ctx context.Context, calc *PayslipCalculation) error
	FindAll(ctx context.Context) ([]PayslipCalculation, error)
	FindByEmployeeName(ctx context.Context, employeeName string) ([]PayslipCalculation, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]PayslipCalculation, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// conn returns a session bound to the outer *sql.Tx when one is set.
func (r *repository) conn(ctx context.Context) (*gorm.DB, error) {
	if r.tx == nil {
		return r.db.WithContext(ctx), nil
	}

	txDB, err := gorm.Open(postgres.New(postgres.Config{Conn: r.tx}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 r.db.Logger,
	})
	if err != nil {
		return nil, err
	}
	return txDB.WithContext(ctx), nil
}

func (r *repository) Save(ctx context.Context, calc *PayslipCalculation) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return mapRepositoryError(db.Create(calc).Error)
}

func (r *repository) FindAll(ctx context.Context) ([]PayslipCalculation, error) {
	var items []PayslipCalculation
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindByEmployeeName(ctx context.Context, employeeName string) ([]PayslipCalculation, error) {
	var items []PayslipCalculation
	err := r.db.WithContext(ctx).
		Where("employee_name = ?", employeeName).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// FindByDateRange is inclusive on both ends.
func (r *repository) FindByDateRange(ctx context.Context, start, end time.Time) ([]PayslipCalculation, error) {
	var items []PayslipCalculation
	err := r.db.WithContext(ctx).
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayslipCalculation{}).
		Count(&count).Error
	return count, err
}
