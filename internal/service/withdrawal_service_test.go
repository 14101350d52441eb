package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sebassmtz/backend-stockpro/internal/dto"
	"github.com/sebassmtz/backend-stockpro/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withdrawal(v int64) dto.CreateWithdrawalRequest {
	return dto.CreateWithdrawalRequest{WithdrawalDate: turnStart.Add(time.Hour), Value: decimal.NewFromInt(v)}
}

func TestCreateWithdrawal_Success(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()
	opened := f.open(t, "1000")
	turnID := uuid.MustParse(opened.Turn.ID)

	resp, err := f.wds.Create(ctx, turnID, withdrawal(250))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, opened.Turn.ID, resp.TurnID)
	assert.Equal(t, "250", resp.Value.String())
	assert.True(t, resp.WithdrawalDate.Equal(turnStart.Add(time.Hour)))

	byTurn, err := f.wds.ListByTurn(ctx, turnID)
	require.NoError(t, err)
	require.Len(t, byTurn, 1)
	assert.Equal(t, resp.ID, byTurn[0].ID)
}

func TestCreateWithdrawal_UnknownTurn(t *testing.T) {
	f := newFixture(t, fixtureOpts{})

	_, err := f.wds.Create(context.Background(), uuid.New(), withdrawal(100))
	assert.ErrorIs(t, err, service.ErrTurnNotFound)
	assert.Empty(t, f.s.withdrawals)
}

func TestCreateWithdrawal_ClosedTurnPolicy(t *testing.T) {
	for _, reject := range []bool{false, true} {
		f := newFixture(t, fixtureOpts{rejectClosedTurn: reject})
		ctx := context.Background()
		opened := f.open(t, "1000")
		_, err := f.turns.Close(ctx, f.register.ID, closeReq(opened.Turn.ID, "1000"))
		require.NoError(t, err)

		_, err = f.wds.Create(ctx, uuid.MustParse(opened.Turn.ID), withdrawal(100))
		if reject {
			assert.ErrorIs(t, err, service.ErrTurnClosed)
			assert.Empty(t, f.s.withdrawals)
		} else {
			assert.NoError(t, err)
			assert.Len(t, f.s.withdrawals, 1)
		}
	}
}

func TestListWithdrawals_ByCashRegisterAndAll(t *testing.T) {
	f := newFixture(t, fixtureOpts{allowMultipleActive: true})
	ctx := context.Background()
	first := f.open(t, "1000")
	second := f.open(t, "1000")

	_, err := f.wds.Create(ctx, uuid.MustParse(first.Turn.ID), withdrawal(100))
	require.NoError(t, err)
	_, err = f.wds.Create(ctx, uuid.MustParse(second.Turn.ID), withdrawal(200))
	require.NoError(t, err)

	otherRegister, err := f.regs.Create(ctx, dto.CreateCashRegisterRequest{Name: "Back till", Location: "Storage"})
	require.NoError(t, err)

	byRegister, err := f.wds.ListByCashRegister(ctx, f.register.ID)
	require.NoError(t, err)
	assert.Len(t, byRegister, 2)

	empty, err := f.wds.ListByCashRegister(ctx, uuid.MustParse(otherRegister.ID))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.wds.ListByCashRegister(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrCashRegisterNotFound)

	all, err := f.wds.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.wds.ListByTurn(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrTurnNotFound)
}
