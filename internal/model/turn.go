package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRegister is a named, located physical till that owns a sequence of turns.
type CashRegister struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"not null"`
	Location string    `gorm:"not null"`

	Turns []Turn `gorm:"foreignKey:CashRegisterID"`
}

func (CashRegister) TableName() string { return "cash_registers" }

// Turn is one operating shift of a cash register.
// State: open while IsActive, closed (terminal) once DateTimeEnd/FinalCash are set.
type Turn struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DateTimeStart  time.Time       `gorm:"not null"`
	BaseCash       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DateTimeEnd    *time.Time
	FinalCash      *decimal.Decimal `gorm:"type:numeric(14,2)"`
	IsActive       bool             `gorm:"not null;default:true"`
	UserID         uuid.UUID        `gorm:"type:uuid;column:id_user;not null"`
	CashRegisterID uuid.UUID        `gorm:"type:uuid;column:id_cash_register;not null;index"`

	User        *User          `gorm:"foreignKey:UserID"`
	Withdrawals []Withdrawal   `gorm:"foreignKey:TurnID"`
	Imbalances  []ImbalanceLog `gorm:"foreignKey:TurnID"`
}

func (Turn) TableName() string { return "turns" }

// Withdrawal is an immutable cash-out event. Never updated, only deleted with its register.
type Withdrawal struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WithdrawalDate time.Time       `gorm:"not null"`
	Value          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TurnID         uuid.UUID       `gorm:"type:uuid;column:id_turn;not null;index"`
}

func (Withdrawal) TableName() string { return "withdrawals" }

// ImbalanceLog is an operator-reported cash discrepancy recorded at close time.
type ImbalanceLog struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Value       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Description string          `gorm:"not null"`
	TurnID      uuid.UUID       `gorm:"type:uuid;column:id_turn;not null;index"`
	CreatedAt   time.Time
}

func (ImbalanceLog) TableName() string { return "imbalance_logs" }
