package repository

import (
	"context"

	"github.com/sebassmtz/backend-stockpro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRepository is read-only: sales are written by the sales subsystem.
type SaleRepository interface {
	ListByTurn(ctx context.Context, turnID uuid.UUID) ([]model.Sale, error)
	SumByTurn(ctx context.Context, turnID uuid.UUID) (total decimal.Decimal, count int, err error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) ListByTurn(ctx context.Context, turnID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Orders.Product.Brand").
		Preload("Orders.Product.Category").
		Where("id_turn = ?", turnID).
		Order("date_sale ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) SumByTurn(ctx context.Context, turnID uuid.UUID) (decimal.Decimal, int, error) {
	var total decimal.Decimal
	var count int
	row := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COALESCE(SUM(price_sale), 0), COUNT(*)").
		Where("id_turn = ?", turnID).
		Row()
	if err := row.Scan(&total, &count); err != nil {
		return decimal.Zero, 0, err
	}
	return total, count, nil
}
