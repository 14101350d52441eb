package repository

import (
	"context"

	"github.com/sebassmtz/backend-stockpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashRegisterRepository interface {
	Create(ctx context.Context, c *model.CashRegister) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error)
	// FindWithTurns loads the register with every turn, its user and withdrawals.
	FindWithTurns(ctx context.Context, id uuid.UUID) (*model.CashRegister, error)
	ListWithTurns(ctx context.Context) ([]model.CashRegister, error)
	Update(ctx context.Context, c *model.CashRegister) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type cashRegisterRepo struct{ db *gorm.DB }

func NewCashRegisterRepository(db *gorm.DB) CashRegisterRepository {
	return &cashRegisterRepo{db: db}
}

func (r *cashRegisterRepo) Create(ctx context.Context, c *model.CashRegister) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cashRegisterRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error) {
	var c model.CashRegister
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cashRegisterRepo) FindWithTurns(ctx context.Context, id uuid.UUID) (*model.CashRegister, error) {
	var c model.CashRegister
	err := withTurns(r.db.WithContext(ctx)).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cashRegisterRepo) ListWithTurns(ctx context.Context) ([]model.CashRegister, error) {
	var regs []model.CashRegister
	err := withTurns(r.db.WithContext(ctx)).Order("name ASC").Find(&regs).Error
	return regs, err
}

func (r *cashRegisterRepo) Update(ctx context.Context, c *model.CashRegister) error {
	return r.db.WithContext(ctx).Model(&model.CashRegister{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{"name": c.Name, "location": c.Location}).Error
}

func (r *cashRegisterRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(r.db, tx).WithContext(ctx).Delete(&model.CashRegister{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func withTurns(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Turns", func(db *gorm.DB) *gorm.DB { return db.Order("date_time_start DESC") }).
		Preload("Turns.User").
		Preload("Turns.Withdrawals", func(db *gorm.DB) *gorm.DB { return db.Order("withdrawal_date ASC") })
}

// conn returns tx when the caller runs inside a transaction, the base handle otherwise.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
