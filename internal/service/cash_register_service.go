package service

import (
	"context"
	"fmt"

	"github.com/sebassmtz/backend-stockpro/internal/dto"
	"github.com/sebassmtz/backend-stockpro/internal/model"
	"github.com/sebassmtz/backend-stockpro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CashRegisterService interface {
	Create(ctx context.Context, req dto.CreateCashRegisterRequest) (*dto.CashRegisterResponse, error)
	Update(ctx context.Context, req dto.UpdateCashRegisterRequest) (*dto.CashRegisterResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CashRegisterResponse, error)
	List(ctx context.Context) ([]dto.CashRegisterResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type cashRegisterService struct {
	registers   repository.CashRegisterRepository
	turns       repository.TurnRepository
	withdrawals repository.WithdrawalRepository
	imbalances  repository.ImbalanceRepository
	locker      Locker
}

func NewCashRegisterService(
	registers repository.CashRegisterRepository,
	turns repository.TurnRepository,
	withdrawals repository.WithdrawalRepository,
	imbalances repository.ImbalanceRepository,
	locker Locker,
) CashRegisterService {
	return &cashRegisterService{
		registers:   registers,
		turns:       turns,
		withdrawals: withdrawals,
		imbalances:  imbalances,
		locker:      locker,
	}
}

func (s *cashRegisterService) Create(ctx context.Context, req dto.CreateCashRegisterRequest) (*dto.CashRegisterResponse, error) {
	c := &model.CashRegister{Name: req.Name, Location: req.Location}
	if err := s.registers.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create cash register: %w", err)
	}
	resp := toCashRegisterResponse(c)
	return &resp, nil
}

func (s *cashRegisterService) Update(ctx context.Context, req dto.UpdateCashRegisterRequest) (*dto.CashRegisterResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, ErrCashRegisterNotFound
	}
	c, err := s.registers.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCashRegisterNotFound)
	}
	c.Name = req.Name
	c.Location = req.Location
	if err := s.registers.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update cash register: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *cashRegisterService) Get(ctx context.Context, id uuid.UUID) (*dto.CashRegisterResponse, error) {
	c, err := s.registers.FindWithTurns(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCashRegisterNotFound)
	}
	resp := toCashRegisterResponse(c)
	return &resp, nil
}

func (s *cashRegisterService) List(ctx context.Context) ([]dto.CashRegisterResponse, error) {
	regs, err := s.registers.ListWithTurns(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CashRegisterResponse, len(regs))
	for i := range regs {
		resp[i] = toCashRegisterResponse(&regs[i])
	}
	return resp, nil
}

// ── Delete ────────────────────────────────────────────────────────────────────
// Dependents go first: withdrawals, imbalance logs, turns, then the register.
// Sales survive with id_turn nulled by the foreign key rule.

func (s *cashRegisterService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.registers.FindByID(ctx, id); err != nil {
		return notFound(err, ErrCashRegisterNotFound)
	}

	return withLock(ctx, s.locker, cashRegisterLockKey(id), func(ctx context.Context) error {
		var nWithdrawals, nImbalances, nTurns int64
		err := runTx(ctx, s.turns.DB(), func(tx *gorm.DB) error {
			var err error
			if nWithdrawals, err = s.withdrawals.DeleteByCashRegister(ctx, tx, id); err != nil {
				return fmt.Errorf("delete withdrawals: %w", err)
			}
			if nImbalances, err = s.imbalances.DeleteByCashRegister(ctx, tx, id); err != nil {
				return fmt.Errorf("delete imbalance logs: %w", err)
			}
			if nTurns, err = s.turns.DeleteByCashRegister(ctx, tx, id); err != nil {
				return fmt.Errorf("delete turns: %w", err)
			}
			if err := s.registers.Delete(ctx, tx, id); err != nil {
				return notFound(err, ErrCashRegisterNotFound)
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Info().
			Str("cash_register_id", id.String()).
			Int64("withdrawals", nWithdrawals).
			Int64("imbalance_logs", nImbalances).
			Int64("turns", nTurns).
			Msg("cash register deleted")
		return nil
	})
}
