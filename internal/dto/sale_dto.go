package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID          string          `json:"id"`
	NameProduct string          `json:"name_product"`
	MeasureUnit string          `json:"measure_unit"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Stock       decimal.Decimal `json:"stock"`
	Brand       *NamedRef       `json:"brand"`
	Category    *NamedRef       `json:"category"`
}

// OrderResponse is one sale line; Price is the line total (units x unit price).
type OrderResponse struct {
	ID            string           `json:"id"`
	Price         decimal.Decimal  `json:"price"`
	AmountProduct decimal.Decimal  `json:"amount_product"`
	Product       *ProductResponse `json:"product"`
}

type SaleResponse struct {
	ID        string          `json:"id"`
	DateSale  time.Time       `json:"date_sale"`
	PriceSale decimal.Decimal `json:"price_sale"`
	Orders    []OrderResponse `json:"orders"`
}
