package handler

import (
	"net/http"

	"github.com/sebassmtz/backend-stockpro/internal/apierror"
	"github.com/sebassmtz/backend-stockpro/internal/dto"
	"github.com/sebassmtz/backend-stockpro/internal/service"

	"github.com/gin-gonic/gin"
)

type CashRegisterHandler struct {
	svc   service.CashRegisterService
	turns service.TurnService
}

func NewCashRegisterHandler(svc service.CashRegisterService, turns service.TurnService) *CashRegisterHandler {
	return &CashRegisterHandler{svc: svc, turns: turns}
}

// List godoc
// @Summary Lists cash registers with their turns
// @Tags cash-register
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CashRegisterResponse
// @Router /api/cashRegister [get]
func (h *CashRegisterHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Gets one cash register with its turns
// @Tags cash-register
// @Produce json
// @Security BearerAuth
// @Param id path string true "Cash register ID"
// @Success 200 {object} dto.CashRegisterResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/cashRegister/{id} [get]
func (h *CashRegisterHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Creates a cash register
// @Tags cash-register
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateCashRegisterRequest true "Cash register"
// @Success 201 {object} dto.CashRegisterResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/cashRegister [post]
func (h *CashRegisterHandler) Create(c *gin.Context) {
	var req dto.CreateCashRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary Renames or relocates a cash register
// @Tags cash-register
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpdateCashRegisterRequest true "Cash register"
// @Success 200 {object} dto.CashRegisterResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/cashRegister [put]
func (h *CashRegisterHandler) Update(c *gin.Context) {
	var req dto.UpdateCashRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Deletes a cash register with its turns, withdrawals and imbalance logs
// @Tags cash-register
// @Param id path string true "Cash register ID"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /api/cashRegister/{id} [delete]
func (h *CashRegisterHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// OpenTurn godoc
// @Summary Opens a turn on a cash register
// @Tags turn
// @Accept json
// @Produce json
// @Param id path string true "Cash register ID"
// @Param body body dto.OpenTurnRequest true "Opening data"
// @Success 200 {object} dto.CashRegisterTurnResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/cashRegister/{id} [post]
func (h *CashRegisterHandler) OpenTurn(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.OpenTurnRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.turns.Open(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CloseTurn godoc
// @Summary Closes a turn after verifying admin credentials
// @Tags turn
// @Accept json
// @Produce json
// @Param id path string true "Cash register ID"
// @Param body body dto.CloseTurnRequest true "Closing data"
// @Success 200 {object} dto.CashRegisterTurnResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/cashRegister/{id} [put]
func (h *CashRegisterHandler) CloseTurn(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CloseTurnRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.turns.Close(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// NotFound answers unknown routes with the standard envelope.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, apierror.New("Route not found"))
}
