package service

import (
	"context"
	"fmt"

	"github.com/sebassmtz/backend-stockpro/internal/dto"
	"github.com/sebassmtz/backend-stockpro/internal/model"
	"github.com/sebassmtz/backend-stockpro/internal/repository"

	"github.com/google/uuid"
)

// WithdrawalService records cash taken out of a register during a turn.
// Withdrawals are immutable once stored.
type WithdrawalService interface {
	Create(ctx context.Context, turnID uuid.UUID, req dto.CreateWithdrawalRequest) (*dto.WithdrawalResponse, error)
	ListByTurn(ctx context.Context, turnID uuid.UUID) ([]dto.WithdrawalResponse, error)
	ListByCashRegister(ctx context.Context, cashRegisterID uuid.UUID) ([]dto.WithdrawalResponse, error)
	ListAll(ctx context.Context) ([]dto.WithdrawalResponse, error)
}

type withdrawalService struct {
	withdrawals     repository.WithdrawalRepository
	turns           repository.TurnRepository
	registers       repository.CashRegisterRepository
	allowClosedTurn bool
}

func NewWithdrawalService(
	withdrawals repository.WithdrawalRepository,
	turns repository.TurnRepository,
	registers repository.CashRegisterRepository,
	allowClosedTurn bool,
) WithdrawalService {
	return &withdrawalService{
		withdrawals:     withdrawals,
		turns:           turns,
		registers:       registers,
		allowClosedTurn: allowClosedTurn,
	}
}

func (s *withdrawalService) Create(ctx context.Context, turnID uuid.UUID, req dto.CreateWithdrawalRequest) (*dto.WithdrawalResponse, error) {
	turn, err := s.turns.FindByID(ctx, turnID)
	if err != nil {
		return nil, notFound(err, ErrTurnNotFound)
	}
	if !turn.IsActive && !s.allowClosedTurn {
		return nil, ErrTurnClosed
	}

	w := &model.Withdrawal{
		WithdrawalDate: req.WithdrawalDate,
		Value:          req.Value,
		TurnID:         turn.ID,
	}
	if err := s.withdrawals.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create withdrawal: %w", err)
	}
	resp := toWithdrawalResponse(*w)
	return &resp, nil
}

func (s *withdrawalService) ListByTurn(ctx context.Context, turnID uuid.UUID) ([]dto.WithdrawalResponse, error) {
	if _, err := s.turns.FindByID(ctx, turnID); err != nil {
		return nil, notFound(err, ErrTurnNotFound)
	}
	ws, err := s.withdrawals.ListByTurn(ctx, turnID)
	if err != nil {
		return nil, err
	}
	return toWithdrawalResponses(ws), nil
}

func (s *withdrawalService) ListByCashRegister(ctx context.Context, cashRegisterID uuid.UUID) ([]dto.WithdrawalResponse, error) {
	if _, err := s.registers.FindByID(ctx, cashRegisterID); err != nil {
		return nil, notFound(err, ErrCashRegisterNotFound)
	}
	ws, err := s.withdrawals.ListByCashRegister(ctx, cashRegisterID)
	if err != nil {
		return nil, err
	}
	return toWithdrawalResponses(ws), nil
}

func (s *withdrawalService) ListAll(ctx context.Context) ([]dto.WithdrawalResponse, error) {
	ws, err := s.withdrawals.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toWithdrawalResponses(ws), nil
}
