package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCashRegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Location string `json:"location" validate:"required,min=1,max=200"`
}

type UpdateCashRegisterRequest struct {
	ID       string `json:"id"       validate:"required,uuid"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Location string `json:"location" validate:"required,min=1,max=200"`
}

type OpenTurnRequest struct {
	DateTimeStart time.Time       `json:"date_time_start" validate:"required"`
	BaseCash      decimal.Decimal `json:"base_cash"       validate:"min=0"`
	UserID        string          `json:"id_user"         validate:"required,uuid"`
}

// CloseTurnRequest carries the admin credentials that authorize the close.
// Value and Description are both optional; an imbalance is only logged when both are set.
type CloseTurnRequest struct {
	TurnID      string           `json:"id_turn"       validate:"required,uuid"`
	DateTimeEnd time.Time        `json:"date_time_end" validate:"required"`
	FinalCash   decimal.Decimal  `json:"final_cash"    validate:"min=0"`
	AdminEmail  string           `json:"admin_email"   validate:"required,email"`
	Password    string           `json:"password"      validate:"required"`
	Value       *decimal.Decimal `json:"value"`
	Description *string          `json:"description"`
}

type CreateWithdrawalRequest struct {
	WithdrawalDate time.Time       `json:"withdrawal_date" validate:"required"`
	Value          decimal.Decimal `json:"value"           validate:"gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type WithdrawalResponse struct {
	ID             string          `json:"id"`
	WithdrawalDate time.Time       `json:"withdrawal_date"`
	Value          decimal.Decimal `json:"value"`
	TurnID         string          `json:"id_turn"`
}

type ImbalanceLogResponse struct {
	ID          string          `json:"id"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	TurnID      string          `json:"id_turn"`
	CreatedAt   time.Time       `json:"created_at"`
}

type TurnResponse struct {
	ID             string               `json:"id"`
	DateTimeStart  time.Time            `json:"date_time_start"`
	BaseCash       decimal.Decimal      `json:"base_cash"`
	DateTimeEnd    *time.Time           `json:"date_time_end"`
	FinalCash      *decimal.Decimal     `json:"final_cash"`
	IsActive       bool                 `json:"is_active"`
	UserID         string               `json:"id_user"`
	CashRegisterID string               `json:"id_cash_register"`
	User           *UserSummary         `json:"user,omitempty"`
	Withdrawals    []WithdrawalResponse `json:"withdrawals,omitempty"`
}

type CashRegisterResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Location string         `json:"location"`
	Turns    []TurnResponse `json:"turns"`
}

// CashRegisterTurnResponse is the register context returned by open/close turn.
type CashRegisterTurnResponse struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Location string       `json:"location"`
	Turn     TurnResponse `json:"turn"`
}

// TurnSummaryResponse reconciles a turn:
// expected_cash = base_cash + sales_total - withdrawals_total.
// Difference is final_cash - expected_cash and is only present once the turn is closed.
type TurnSummaryResponse struct {
	TurnID           string                 `json:"id_turn"`
	CashRegisterID   string                 `json:"id_cash_register"`
	CashRegisterName string                 `json:"cash_register_name"`
	Operator         string                 `json:"operator"`
	IsActive         bool                   `json:"is_active"`
	DateTimeStart    time.Time              `json:"date_time_start"`
	DateTimeEnd      *time.Time             `json:"date_time_end"`
	BaseCash         decimal.Decimal        `json:"base_cash"`
	SalesCount       int                    `json:"sales_count"`
	SalesTotal       decimal.Decimal        `json:"sales_total"`
	WithdrawalsCount int                    `json:"withdrawals_count"`
	WithdrawalsTotal decimal.Decimal        `json:"withdrawals_total"`
	ExpectedCash     decimal.Decimal        `json:"expected_cash"`
	FinalCash        *decimal.Decimal       `json:"final_cash"`
	Difference       *decimal.Decimal       `json:"difference"`
	Imbalances       []ImbalanceLogResponse `json:"imbalances"`
}
