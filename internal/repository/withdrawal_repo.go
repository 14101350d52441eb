package repository

import (
	"context"

	"github.com/sebassmtz/backend-stockpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WithdrawalRepository has no Update method: withdrawals are immutable.
type WithdrawalRepository interface {
	Create(ctx context.Context, w *model.Withdrawal) error
	ListByTurn(ctx context.Context, turnID uuid.UUID) ([]model.Withdrawal, error)
	ListByCashRegister(ctx context.Context, cashRegisterID uuid.UUID) ([]model.Withdrawal, error)
	ListAll(ctx context.Context) ([]model.Withdrawal, error)
	DeleteByCashRegister(ctx context.Context, tx *gorm.DB, cashRegisterID uuid.UUID) (int64, error)
}

type withdrawalRepo struct{ db *gorm.DB }

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository { return &withdrawalRepo{db: db} }

func (r *withdrawalRepo) Create(ctx context.Context, w *model.Withdrawal) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *withdrawalRepo) ListByTurn(ctx context.Context, turnID uuid.UUID) ([]model.Withdrawal, error) {
	var ws []model.Withdrawal
	err := r.db.WithContext(ctx).
		Where("id_turn = ?", turnID).
		Order("withdrawal_date ASC").
		Find(&ws).Error
	return ws, err
}

func (r *withdrawalRepo) ListByCashRegister(ctx context.Context, cashRegisterID uuid.UUID) ([]model.Withdrawal, error) {
	var ws []model.Withdrawal
	err := r.db.WithContext(ctx).
		Joins("JOIN turns ON turns.id = withdrawals.id_turn").
		Where("turns.id_cash_register = ?", cashRegisterID).
		Order("withdrawals.withdrawal_date ASC").
		Find(&ws).Error
	return ws, err
}

func (r *withdrawalRepo) ListAll(ctx context.Context) ([]model.Withdrawal, error) {
	var ws []model.Withdrawal
	err := r.db.WithContext(ctx).Order("withdrawal_date DESC").Find(&ws).Error
	return ws, err
}

func (r *withdrawalRepo) DeleteByCashRegister(ctx context.Context, tx *gorm.DB, cashRegisterID uuid.UUID) (int64, error) {
	res := conn(r.db, tx).WithContext(ctx).
		Where("id_turn IN (?)", turnsOf(r.db, cashRegisterID)).
		Delete(&model.Withdrawal{})
	return res.RowsAffected, res.Error
}

// turnsOf is the id subquery of every turn that belongs to a register.
func turnsOf(db *gorm.DB, cashRegisterID uuid.UUID) *gorm.DB {
	return db.Model(&model.Turn{}).Select("id").Where("id_cash_register = ?", cashRegisterID)
}
