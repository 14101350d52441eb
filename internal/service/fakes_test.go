package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sebassmtz/backend-stockpro/internal/model"
	"github.com/sebassmtz/backend-stockpro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory store shared by every fake repository ──────────────────────────

type store struct {
	mu          sync.Mutex
	registers   map[uuid.UUID]*model.CashRegister
	turns       map[uuid.UUID]*model.Turn
	users       map[uuid.UUID]*model.User
	withdrawals []model.Withdrawal
	imbalances  []model.ImbalanceLog
	sales       []model.Sale

	// ops records every write in order, e.g. "delete:withdrawals".
	ops []string
}

func newStore() *store {
	return &store{
		registers: make(map[uuid.UUID]*model.CashRegister),
		turns:     make(map[uuid.UUID]*model.Turn),
		users:     make(map[uuid.UUID]*model.User),
	}
}

func (s *store) record(op string) { s.ops = append(s.ops, op) }

func (s *store) turnCopy(id uuid.UUID) (*model.Turn, bool) {
	t, ok := s.turns[id]
	if !ok {
		return nil, false
	}
	cp := *t
	if u, ok := s.users[cp.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	return &cp, true
}

func (s *store) withdrawalsOf(turnID uuid.UUID) []model.Withdrawal {
	var out []model.Withdrawal
	for _, w := range s.withdrawals {
		if w.TurnID == turnID {
			out = append(out, w)
		}
	}
	return out
}

func (s *store) isTurnOf(turnID, registerID uuid.UUID) bool {
	t, ok := s.turns[turnID]
	return ok && t.CashRegisterID == registerID
}

// ── CashRegisterRepository ───────────────────────────────────────────────────

type fakeRegisterRepo struct{ s *store }

func (r *fakeRegisterRepo) Create(_ context.Context, c *model.CashRegister) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.s.registers[c.ID] = &cp
	r.s.record("create:cash_register")
	return nil
}

func (r *fakeRegisterRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashRegister, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.registers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeRegisterRepo) FindWithTurns(ctx context.Context, id uuid.UUID) (*model.CashRegister, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.Turns = r.turnsOf(id)
	return c, nil
}

func (r *fakeRegisterRepo) ListWithTurns(_ context.Context) ([]model.CashRegister, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.CashRegister
	for _, c := range r.s.registers {
		cp := *c
		cp.Turns = r.turnsOf(c.ID)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// turnsOf must be called under lock.
func (r *fakeRegisterRepo) turnsOf(id uuid.UUID) []model.Turn {
	var turns []model.Turn
	for tid, t := range r.s.turns {
		if t.CashRegisterID != id {
			continue
		}
		cp, _ := r.s.turnCopy(tid)
		cp.Withdrawals = r.s.withdrawalsOf(tid)
		turns = append(turns, *cp)
	}
	sort.Slice(turns, func(i, j int) bool { return turns[i].DateTimeStart.After(turns[j].DateTimeStart) })
	return turns
}

func (r *fakeRegisterRepo) Update(_ context.Context, c *model.CashRegister) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.registers[c.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Name = c.Name
	existing.Location = c.Location
	r.s.record("update:cash_register")
	return nil
}

func (r *fakeRegisterRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.registers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, t := range r.s.turns {
		if t.CashRegisterID == id {
			return errors.New("foreign key violation: turns still reference cash register")
		}
	}
	delete(r.s.registers, id)
	r.s.record("delete:cash_register")
	return nil
}

// ── TurnRepository ───────────────────────────────────────────────────────────

type fakeTurnRepo struct{ s *store }

func (r *fakeTurnRepo) DB() *gorm.DB { return nil }

func (r *fakeTurnRepo) Create(_ context.Context, t *model.Turn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	cp.User = nil
	r.s.turns[t.ID] = &cp
	r.s.record("create:turn")
	return nil
}

func (r *fakeTurnRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Turn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.turnCopy(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeTurnRepo) FindActiveByCashRegister(_ context.Context, cashRegisterID uuid.UUID) (*model.Turn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.turns {
		if t.CashRegisterID == cashRegisterID && t.IsActive {
			cp, _ := r.s.turnCopy(id)
			return cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTurnRepo) Close(_ context.Context, _ *gorm.DB, id uuid.UUID, end time.Time, finalCash decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.turns[id]
	if !ok || !t.IsActive {
		return false, nil
	}
	t.IsActive = false
	t.DateTimeEnd = &end
	fc := finalCash
	t.FinalCash = &fc
	r.s.record("close:turn")
	return true, nil
}

func (r *fakeTurnRepo) DeleteByCashRegister(_ context.Context, _ *gorm.DB, cashRegisterID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, t := range r.s.turns {
		if t.CashRegisterID != cashRegisterID {
			continue
		}
		for _, w := range r.s.withdrawals {
			if w.TurnID == id {
				return 0, errors.New("foreign key violation: withdrawals still reference turn")
			}
		}
		for _, l := range r.s.imbalances {
			if l.TurnID == id {
				return 0, errors.New("foreign key violation: imbalance logs still reference turn")
			}
		}
		// sales keep their history with id_turn nulled
		for i := range r.s.sales {
			if r.s.sales[i].TurnID != nil && *r.s.sales[i].TurnID == id {
				r.s.sales[i].TurnID = nil
			}
		}
		delete(r.s.turns, id)
		n++
	}
	r.s.record("delete:turns")
	return n, nil
}

// ── WithdrawalRepository ─────────────────────────────────────────────────────

type fakeWithdrawalRepo struct{ s *store }

func (r *fakeWithdrawalRepo) Create(_ context.Context, w *model.Withdrawal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.turns[w.TurnID]; !ok {
		return errors.New("foreign key violation: unknown turn")
	}
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.s.withdrawals = append(r.s.withdrawals, *w)
	r.s.record("create:withdrawal")
	return nil
}

func (r *fakeWithdrawalRepo) ListByTurn(_ context.Context, turnID uuid.UUID) ([]model.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.withdrawalsOf(turnID), nil
}

func (r *fakeWithdrawalRepo) ListByCashRegister(_ context.Context, cashRegisterID uuid.UUID) ([]model.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Withdrawal
	for _, w := range r.s.withdrawals {
		if r.s.isTurnOf(w.TurnID, cashRegisterID) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWithdrawalRepo) ListAll(_ context.Context) ([]model.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.Withdrawal(nil), r.s.withdrawals...), nil
}

func (r *fakeWithdrawalRepo) DeleteByCashRegister(_ context.Context, _ *gorm.DB, cashRegisterID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.withdrawals[:0]
	var n int64
	for _, w := range r.s.withdrawals {
		if r.s.isTurnOf(w.TurnID, cashRegisterID) {
			n++
			continue
		}
		kept = append(kept, w)
	}
	r.s.withdrawals = kept
	r.s.record("delete:withdrawals")
	return n, nil
}

// ── ImbalanceRepository ──────────────────────────────────────────────────────

type fakeImbalanceRepo struct{ s *store }

func (r *fakeImbalanceRepo) Create(_ context.Context, _ *gorm.DB, l *model.ImbalanceLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	r.s.imbalances = append(r.s.imbalances, *l)
	r.s.record("create:imbalance_log")
	return nil
}

func (r *fakeImbalanceRepo) ListByTurn(_ context.Context, turnID uuid.UUID) ([]model.ImbalanceLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.ImbalanceLog
	for _, l := range r.s.imbalances {
		if l.TurnID == turnID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeImbalanceRepo) DeleteByCashRegister(_ context.Context, _ *gorm.DB, cashRegisterID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.imbalances[:0]
	var n int64
	for _, l := range r.s.imbalances {
		if r.s.isTurnOf(l.TurnID, cashRegisterID) {
			n++
			continue
		}
		kept = append(kept, l)
	}
	r.s.imbalances = kept
	r.s.record("delete:imbalance_logs")
	return n, nil
}

// ── SaleRepository ───────────────────────────────────────────────────────────

type fakeSaleRepo struct{ s *store }

func (r *fakeSaleRepo) ListByTurn(_ context.Context, turnID uuid.UUID) ([]model.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Sale
	for _, sale := range r.s.sales {
		if sale.TurnID != nil && *sale.TurnID == turnID {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) SumByTurn(ctx context.Context, turnID uuid.UUID) (decimal.Decimal, int, error) {
	sales, _ := r.ListByTurn(ctx, turnID)
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.PriceSale)
	}
	return total, len(sales), nil
}

// ── UserRepository ───────────────────────────────────────────────────────────

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

var (
	_ repository.CashRegisterRepository = (*fakeRegisterRepo)(nil)
	_ repository.TurnRepository         = (*fakeTurnRepo)(nil)
	_ repository.WithdrawalRepository   = (*fakeWithdrawalRepo)(nil)
	_ repository.ImbalanceRepository    = (*fakeImbalanceRepo)(nil)
	_ repository.SaleRepository         = (*fakeSaleRepo)(nil)
	_ repository.UserRepository         = (*fakeUserRepo)(nil)
)

// ── Locker and report queue ──────────────────────────────────────────────────

type recordingLocker struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (l *recordingLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	l.keys = append(l.keys, key)
	err := l.err
	l.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(ctx)
}

type fakeReportQueue struct {
	mu      sync.Mutex
	turnIDs []uuid.UUID
	emails  []string
	err     error
}

func (q *fakeReportQueue) EnqueueTurnReport(_ context.Context, turnID uuid.UUID, notifyEmail string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.turnIDs = append(q.turnIDs, turnID)
	q.emails = append(q.emails, notifyEmail)
	return nil
}
