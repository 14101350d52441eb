package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is owned by the sales subsystem; this service only reads it by turn.
type Sale struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DateSale  time.Time       `gorm:"not null"`
	PriceSale decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	// TurnID is nulled when the owning register (and its turns) is deleted
	TurnID *uuid.UUID `gorm:"type:uuid;column:id_turn;index"`

	Orders []Order `gorm:"foreignKey:SaleID"`
}

func (Sale) TableName() string { return "sales" }

// Order is one sale line: AmountProduct units of Product at Price (line total).
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Price         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	AmountProduct decimal.Decimal `gorm:"type:numeric(12,3);not null"`
	ProductID     uuid.UUID       `gorm:"type:uuid;column:id_product;not null"`
	SaleID        uuid.UUID       `gorm:"type:uuid;column:id_sale;not null;index"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (Order) TableName() string { return "orders" }

// Product is catalog data joined into sale listings.
// MeasureUnit: "KG" | "LB" | "UNIT"
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NameProduct string    `gorm:"not null"`
	Description string
	MeasureUnit string          `gorm:"type:varchar(10);not null"`
	SalePrice   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Stock       decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
	BrandID     *uuid.UUID      `gorm:"type:uuid;column:id_brand"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;column:id_category"`

	Brand    *Brand    `gorm:"foreignKey:BrandID"`
	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Product) TableName() string { return "products" }

type Brand struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"not null"`
	IsActive bool      `gorm:"not null;default:true"`
}

func (Brand) TableName() string { return "brand_products" }

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	Description string
	IsActive    bool `gorm:"not null;default:true"`
}

func (Category) TableName() string { return "category_products" }
