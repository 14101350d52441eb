package service

import (
	"github.com/sebassmtz/backend-stockpro/internal/dto"
	"github.com/sebassmtz/backend-stockpro/internal/model"
)

func toUserSummary(u *model.User) *dto.UserSummary {
	if u == nil {
		return nil
	}
	return &dto.UserSummary{ID: u.ID.String(), Username: u.Username, Email: u.Email}
}

func toWithdrawalResponse(w model.Withdrawal) dto.WithdrawalResponse {
	return dto.WithdrawalResponse{
		ID:             w.ID.String(),
		WithdrawalDate: w.WithdrawalDate,
		Value:          w.Value,
		TurnID:         w.TurnID.String(),
	}
}

func toWithdrawalResponses(ws []model.Withdrawal) []dto.WithdrawalResponse {
	resp := make([]dto.WithdrawalResponse, len(ws))
	for i, w := range ws {
		resp[i] = toWithdrawalResponse(w)
	}
	return resp
}

func toImbalanceResponses(logs []model.ImbalanceLog) []dto.ImbalanceLogResponse {
	resp := make([]dto.ImbalanceLogResponse, len(logs))
	for i, l := range logs {
		resp[i] = dto.ImbalanceLogResponse{
			ID:          l.ID.String(),
			Value:       l.Value,
			Description: l.Description,
			TurnID:      l.TurnID.String(),
			CreatedAt:   l.CreatedAt,
		}
	}
	return resp
}

func toTurnResponse(t *model.Turn) dto.TurnResponse {
	resp := dto.TurnResponse{
		ID:             t.ID.String(),
		DateTimeStart:  t.DateTimeStart,
		BaseCash:       t.BaseCash,
		DateTimeEnd:    t.DateTimeEnd,
		FinalCash:      t.FinalCash,
		IsActive:       t.IsActive,
		UserID:         t.UserID.String(),
		CashRegisterID: t.CashRegisterID.String(),
		User:           toUserSummary(t.User),
	}
	if len(t.Withdrawals) > 0 {
		resp.Withdrawals = toWithdrawalResponses(t.Withdrawals)
	}
	return resp
}

func toCashRegisterResponse(c *model.CashRegister) dto.CashRegisterResponse {
	turns := make([]dto.TurnResponse, len(c.Turns))
	for i := range c.Turns {
		turns[i] = toTurnResponse(&c.Turns[i])
	}
	return dto.CashRegisterResponse{ID: c.ID.String(), Name: c.Name, Location: c.Location, Turns: turns}
}

func toCashRegisterTurnResponse(c *model.CashRegister, t *model.Turn) *dto.CashRegisterTurnResponse {
	return &dto.CashRegisterTurnResponse{
		ID:       c.ID.String(),
		Name:     c.Name,
		Location: c.Location,
		Turn:     toTurnResponse(t),
	}
}

func toSaleResponses(sales []model.Sale) []dto.SaleResponse {
	resp := make([]dto.SaleResponse, len(sales))
	for i, s := range sales {
		orders := make([]dto.OrderResponse, len(s.Orders))
		for j, o := range s.Orders {
			orders[j] = dto.OrderResponse{
				ID:            o.ID.String(),
				Price:         o.Price,
				AmountProduct: o.AmountProduct,
				Product:       toProductResponse(o.Product),
			}
		}
		resp[i] = dto.SaleResponse{
			ID:        s.ID.String(),
			DateSale:  s.DateSale,
			PriceSale: s.PriceSale,
			Orders:    orders,
		}
	}
	return resp
}

func toProductResponse(p *model.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	resp := &dto.ProductResponse{
		ID:          p.ID.String(),
		NameProduct: p.NameProduct,
		MeasureUnit: p.MeasureUnit,
		SalePrice:   p.SalePrice,
		Stock:       p.Stock,
	}
	if p.Brand != nil {
		resp.Brand = &dto.NamedRef{ID: p.Brand.ID.String(), Name: p.Brand.Name}
	}
	if p.Category != nil {
		resp.Category = &dto.NamedRef{ID: p.Category.ID.String(), Name: p.Category.Name}
	}
	return resp
}

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
	if u.PersonID != nil {
		pid := u.PersonID.String()
		resp.PersonID = &pid
	}
	if u.Person != nil {
		resp.Name = u.Person.Name
		resp.LastName = u.Person.LastName
	}
	return resp
}
