package repository

import (
	"context"
	"time"

	"github.com/sebassmtz/backend-stockpro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TurnRepository interface {
	Create(ctx context.Context, t *model.Turn) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turn, error)
	FindActiveByCashRegister(ctx context.Context, cashRegisterID uuid.UUID) (*model.Turn, error)
	// Close flips an active turn to closed. It reports false when the turn was
	// already closed, so two racing closes cannot both succeed.
	Close(ctx context.Context, tx *gorm.DB, id uuid.UUID, end time.Time, finalCash decimal.Decimal) (bool, error)
	DeleteByCashRegister(ctx context.Context, tx *gorm.DB, cashRegisterID uuid.UUID) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type turnRepo struct{ db *gorm.DB }

func NewTurnRepository(db *gorm.DB) TurnRepository { return &turnRepo{db: db} }

func (r *turnRepo) DB() *gorm.DB { return r.db }

func (r *turnRepo) Create(ctx context.Context, t *model.Turn) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turn, error) {
	var t model.Turn
	err := r.db.WithContext(ctx).Preload("User").First(&t, "id = ?", id).Error
	return &t, err
}

func (r *turnRepo) FindActiveByCashRegister(ctx context.Context, cashRegisterID uuid.UUID) (*model.Turn, error) {
	var t model.Turn
	err := r.db.WithContext(ctx).
		Where("id_cash_register = ? AND is_active = true", cashRegisterID).
		First(&t).Error
	return &t, err
}

func (r *turnRepo) Close(ctx context.Context, tx *gorm.DB, id uuid.UUID, end time.Time, finalCash decimal.Decimal) (bool, error) {
	res := conn(r.db, tx).WithContext(ctx).Model(&model.Turn{}).
		Where("id = ? AND is_active = true", id).
		Updates(map[string]interface{}{
			"is_active":     false,
			"date_time_end": end,
			"final_cash":    finalCash,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *turnRepo) DeleteByCashRegister(ctx context.Context, tx *gorm.DB, cashRegisterID uuid.UUID) (int64, error) {
	res := conn(r.db, tx).WithContext(ctx).
		Where("id_cash_register = ?", cashRegisterID).
		Delete(&model.Turn{})
	return res.RowsAffected, res.Error
}
