package repository

import (
	"context"

	"github.com/sebassmtz/backend-stockpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImbalanceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, l *model.ImbalanceLog) error
	ListByTurn(ctx context.Context, turnID uuid.UUID) ([]model.ImbalanceLog, error)
	DeleteByCashRegister(ctx context.Context, tx *gorm.DB, cashRegisterID uuid.UUID) (int64, error)
}

type imbalanceRepo struct{ db *gorm.DB }

func NewImbalanceRepository(db *gorm.DB) ImbalanceRepository { return &imbalanceRepo{db: db} }

func (r *imbalanceRepo) Create(ctx context.Context, tx *gorm.DB, l *model.ImbalanceLog) error {
	return conn(r.db, tx).WithContext(ctx).Create(l).Error
}

func (r *imbalanceRepo) ListByTurn(ctx context.Context, turnID uuid.UUID) ([]model.ImbalanceLog, error) {
	var logs []model.ImbalanceLog
	err := r.db.WithContext(ctx).Where("id_turn = ?", turnID).Order("created_at ASC").Find(&logs).Error
	return logs, err
}

func (r *imbalanceRepo) DeleteByCashRegister(ctx context.Context, tx *gorm.DB, cashRegisterID uuid.UUID) (int64, error) {
	res := conn(r.db, tx).WithContext(ctx).
		Where("id_turn IN (?)", turnsOf(r.db, cashRegisterID)).
		Delete(&model.ImbalanceLog{})
	return res.RowsAffected, res.Error
}
