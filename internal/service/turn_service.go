package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sebassmtz/backend-stockpro/internal/dto"
	"github.com/sebassmtz/backend-stockpro/internal/model"
	"github.com/sebassmtz/backend-stockpro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportQueue accepts closing-report jobs. worker.Dispatcher implements it.
type ReportQueue interface {
	EnqueueTurnReport(ctx context.Context, turnID uuid.UUID, notifyEmail string) error
}

type TurnService interface {
	Open(ctx context.Context, cashRegisterID uuid.UUID, req dto.OpenTurnRequest) (*dto.CashRegisterTurnResponse, error)
	Close(ctx context.Context, cashRegisterID uuid.UUID, req dto.CloseTurnRequest) (*dto.CashRegisterTurnResponse, error)
	GetTurn(ctx context.Context, turnID uuid.UUID) (*dto.TurnResponse, error)
	Summary(ctx context.Context, turnID uuid.UUID) (*dto.TurnSummaryResponse, error)
	ListSales(ctx context.Context, turnID uuid.UUID) ([]dto.SaleResponse, error)
	ListImbalances(ctx context.Context, turnID uuid.UUID) ([]dto.ImbalanceLogResponse, error)
}

type TurnOptions struct {
	// EnforceSingleActiveTurn rejects an open while the register has an active turn.
	EnforceSingleActiveTurn bool
	// ReportQueue and NotifyEmail enable the closing report; either unset disables it.
	ReportQueue ReportQueue
	NotifyEmail string
}

type turnService struct {
	turns       repository.TurnRepository
	registers   repository.CashRegisterRepository
	withdrawals repository.WithdrawalRepository
	imbalances  repository.ImbalanceRepository
	sales       repository.SaleRepository
	users       repository.UserRepository
	auth        AuthService
	locker      Locker
	opts        TurnOptions
}

func NewTurnService(
	turns repository.TurnRepository,
	registers repository.CashRegisterRepository,
	withdrawals repository.WithdrawalRepository,
	imbalances repository.ImbalanceRepository,
	sales repository.SaleRepository,
	users repository.UserRepository,
	auth AuthService,
	locker Locker,
	opts TurnOptions,
) TurnService {
	return &turnService{
		turns:       turns,
		registers:   registers,
		withdrawals: withdrawals,
		imbalances:  imbalances,
		sales:       sales,
		users:       users,
		auth:        auth,
		locker:      locker,
		opts:        opts,
	}
}

// ── Open ──────────────────────────────────────────────────────────────────────

func (s *turnService) Open(ctx context.Context, cashRegisterID uuid.UUID, req dto.OpenTurnRequest) (*dto.CashRegisterTurnResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var (
		register *model.CashRegister
		turn     *model.Turn
	)
	err = withLock(ctx, s.locker, cashRegisterLockKey(cashRegisterID), func(ctx context.Context) error {
		register, err = s.registers.FindByID(ctx, cashRegisterID)
		if err != nil {
			return notFound(err, ErrCashRegisterNotFound)
		}

		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}

		if s.opts.EnforceSingleActiveTurn {
			_, err := s.turns.FindActiveByCashRegister(ctx, cashRegisterID)
			if err == nil {
				return ErrTurnAlreadyActive
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		turn = &model.Turn{
			DateTimeStart:  req.DateTimeStart,
			BaseCash:       req.BaseCash,
			IsActive:       true,
			UserID:         user.ID,
			CashRegisterID: register.ID,
		}
		if err := s.turns.Create(ctx, turn); err != nil {
			return fmt.Errorf("create turn: %w", err)
		}
		turn.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("cash_register_id", register.ID.String()).
		Str("turn_id", turn.ID.String()).
		Msg("turn opened")
	return toCashRegisterTurnResponse(register, turn), nil
}

// ── Close ─────────────────────────────────────────────────────────────────────
// Credentials are checked before the lock; the state change itself is a
// conditional update so a second close can never overwrite the first.

func (s *turnService) Close(ctx context.Context, cashRegisterID uuid.UUID, req dto.CloseTurnRequest) (*dto.CashRegisterTurnResponse, error) {
	register, err := s.registers.FindByID(ctx, cashRegisterID)
	if err != nil {
		return nil, notFound(err, ErrCashRegisterNotFound)
	}

	turnID, err := uuid.Parse(req.TurnID)
	if err != nil {
		return nil, ErrTurnNotFound
	}
	turn, err := s.turns.FindByID(ctx, turnID)
	if err != nil {
		return nil, notFound(err, ErrTurnNotFound)
	}
	if turn.CashRegisterID != register.ID {
		return nil, ErrTurnNotFound
	}

	if _, err := s.auth.VerifyCredentials(ctx, req.AdminEmail, req.Password); err != nil {
		return nil, err
	}

	if req.DateTimeEnd.Before(turn.DateTimeStart) {
		return nil, ErrTurnEndBeforeStart
	}

	imbalance := imbalanceFrom(turn.ID, req)

	err = withLock(ctx, s.locker, cashRegisterLockKey(register.ID), func(ctx context.Context) error {
		return runTx(ctx, s.turns.DB(), func(tx *gorm.DB) error {
			closed, err := s.turns.Close(ctx, tx, turn.ID, req.DateTimeEnd, req.FinalCash)
			if err != nil {
				return fmt.Errorf("close turn: %w", err)
			}
			if !closed {
				return ErrTurnAlreadyClosed
			}
			if imbalance != nil {
				if err := s.imbalances.Create(ctx, tx, imbalance); err != nil {
					return fmt.Errorf("log imbalance: %w", err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	closedTurn, err := s.turns.FindByID(ctx, turn.ID)
	if err != nil {
		return nil, err
	}

	ev := log.Info().
		Str("cash_register_id", register.ID.String()).
		Str("turn_id", turn.ID.String()).
		Str("final_cash", req.FinalCash.StringFixed(2))
	if imbalance != nil {
		ev = ev.Str("imbalance", imbalance.Value.StringFixed(2))
	}
	ev.Msg("turn closed")

	s.enqueueReport(ctx, turn.ID)
	return toCashRegisterTurnResponse(register, closedTurn), nil
}

// imbalanceFrom returns the log row to insert, or nil unless the operator
// reported both a non-zero value and a description.
func imbalanceFrom(turnID uuid.UUID, req dto.CloseTurnRequest) *model.ImbalanceLog {
	if req.Value == nil || req.Value.IsZero() {
		return nil
	}
	if req.Description == nil || *req.Description == "" {
		return nil
	}
	return &model.ImbalanceLog{
		Value:       *req.Value,
		Description: *req.Description,
		TurnID:      turnID,
	}
}

func (s *turnService) enqueueReport(ctx context.Context, turnID uuid.UUID) {
	if s.opts.ReportQueue == nil || s.opts.NotifyEmail == "" {
		return
	}
	if err := s.opts.ReportQueue.EnqueueTurnReport(ctx, turnID, s.opts.NotifyEmail); err != nil {
		log.Error().Err(err).Str("turn_id", turnID.String()).Msg("enqueue turn report")
	}
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *turnService) GetTurn(ctx context.Context, turnID uuid.UUID) (*dto.TurnResponse, error) {
	turn, err := s.turns.FindByID(ctx, turnID)
	if err != nil {
		return nil, notFound(err, ErrTurnNotFound)
	}
	ws, err := s.withdrawals.ListByTurn(ctx, turnID)
	if err != nil {
		return nil, err
	}
	turn.Withdrawals = ws
	resp := toTurnResponse(turn)
	return &resp, nil
}

func (s *turnService) Summary(ctx context.Context, turnID uuid.UUID) (*dto.TurnSummaryResponse, error) {
	turn, err := s.turns.FindByID(ctx, turnID)
	if err != nil {
		return nil, notFound(err, ErrTurnNotFound)
	}
	register, err := s.registers.FindByID(ctx, turn.CashRegisterID)
	if err != nil {
		return nil, notFound(err, ErrCashRegisterNotFound)
	}

	salesTotal, salesCount, err := s.sales.SumByTurn(ctx, turnID)
	if err != nil {
		return nil, err
	}
	ws, err := s.withdrawals.ListByTurn(ctx, turnID)
	if err != nil {
		return nil, err
	}
	logs, err := s.imbalances.ListByTurn(ctx, turnID)
	if err != nil {
		return nil, err
	}

	withdrawalsTotal := decimal.Zero
	for _, w := range ws {
		withdrawalsTotal = withdrawalsTotal.Add(w.Value)
	}
	expected := turn.BaseCash.Add(salesTotal).Sub(withdrawalsTotal)

	resp := &dto.TurnSummaryResponse{
		TurnID:           turn.ID.String(),
		CashRegisterID:   register.ID.String(),
		CashRegisterName: register.Name,
		IsActive:         turn.IsActive,
		DateTimeStart:    turn.DateTimeStart,
		DateTimeEnd:      turn.DateTimeEnd,
		BaseCash:         turn.BaseCash,
		SalesCount:       salesCount,
		SalesTotal:       salesTotal,
		WithdrawalsCount: len(ws),
		WithdrawalsTotal: withdrawalsTotal,
		ExpectedCash:     expected,
		FinalCash:        turn.FinalCash,
		Imbalances:       toImbalanceResponses(logs),
	}
	if turn.User != nil {
		resp.Operator = turn.User.Username
	}
	if !turn.IsActive && turn.FinalCash != nil {
		diff := turn.FinalCash.Sub(expected)
		resp.Difference = &diff
	}
	return resp, nil
}

func (s *turnService) ListSales(ctx context.Context, turnID uuid.UUID) ([]dto.SaleResponse, error) {
	if _, err := s.turns.FindByID(ctx, turnID); err != nil {
		return nil, notFound(err, ErrTurnNotFound)
	}
	sales, err := s.sales.ListByTurn(ctx, turnID)
	if err != nil {
		return nil, err
	}
	return toSaleResponses(sales), nil
}

func (s *turnService) ListImbalances(ctx context.Context, turnID uuid.UUID) ([]dto.ImbalanceLogResponse, error) {
	if _, err := s.turns.FindByID(ctx, turnID); err != nil {
		return nil, notFound(err, ErrTurnNotFound)
	}
	logs, err := s.imbalances.ListByTurn(ctx, turnID)
	if err != nil {
		return nil, err
	}
	return toImbalanceResponses(logs), nil
}
