package handler

import (
	"net/http"

	"github.com/sebassmtz/backend-stockpro/internal/dto"
	"github.com/sebassmtz/backend-stockpro/internal/service"

	"github.com/gin-gonic/gin"
)

type WithdrawalHandler struct{ svc service.WithdrawalService }

func NewWithdrawalHandler(svc service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{svc: svc}
}

// Create godoc
// @Summary Records a cash withdrawal against a turn
// @Tags withdrawal
// @Accept json
// @Produce json
// @Param id path string true "Turn ID"
// @Param body body dto.CreateWithdrawalRequest true "Withdrawal"
// @Success 200 {object} dto.WithdrawalResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/cashRegister/turn/{id} [post]
func (h *WithdrawalHandler) Create(c *gin.Context) {
	turnID, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CreateWithdrawalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), turnID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByTurn godoc
// @Summary Lists the withdrawals of a turn
// @Tags withdrawal
// @Produce json
// @Param id path string true "Turn ID"
// @Success 200 {array} dto.WithdrawalResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/cashRegister/turn/withdrawal/{id} [get]
func (h *WithdrawalHandler) ListByTurn(c *gin.Context) {
	turnID, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListByTurn(c.Request.Context(), turnID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByCashRegister godoc
// @Summary Lists the withdrawals of every turn of a cash register
// @Tags withdrawal
// @Produce json
// @Param id path string true "Cash register ID"
// @Success 200 {array} dto.WithdrawalResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/cashRegister/{id}/withdrawals [get]
func (h *WithdrawalHandler) ListByCashRegister(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListByCashRegister(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAll godoc
// @Summary Lists every withdrawal
// @Tags withdrawal
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.WithdrawalResponse
// @Router /api/cashRegister/withdrawals [get]
func (h *WithdrawalHandler) ListAll(c *gin.Context) {
	resp, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
