package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/sebassmtz/backend-stockpro/internal/dto"
	"github.com/sebassmtz/backend-stockpro/internal/service"

	"github.com/gin-gonic/gin"
)

// ReportRenderer writes a turn summary as a PDF document.
type ReportRenderer func(w io.Writer, summary *dto.TurnSummaryResponse) error

type TurnHandler struct {
	svc    service.TurnService
	render ReportRenderer
}

func NewTurnHandler(svc service.TurnService, render ReportRenderer) *TurnHandler {
	return &TurnHandler{svc: svc, render: render}
}

// Get godoc
// @Summary Gets a turn with its user and withdrawals
// @Tags turn
// @Produce json
// @Param id path string true "Turn ID"
// @Success 200 {object} dto.TurnResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/cashRegister/turn/{id} [get]
func (h *TurnHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetTurn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sales godoc
// @Summary Lists the sales recorded during a turn
// @Tags turn
// @Produce json
// @Param id path string true "Turn ID"
// @Success 200 {array} dto.SaleResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/cashRegister/turn/sales/{id} [get]
func (h *TurnHandler) Sales(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Imbalances godoc
// @Summary Lists the imbalance logs recorded when a turn closed
// @Tags turn
// @Produce json
// @Param id path string true "Turn ID"
// @Success 200 {array} dto.ImbalanceLogResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/cashRegister/turn/imbalance/{id} [get]
func (h *TurnHandler) Imbalances(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListImbalances(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Summary godoc
// @Summary Reconciles a turn: expected cash against the declared final cash
// @Tags turn
// @Produce json
// @Param id path string true "Turn ID"
// @Success 200 {object} dto.TurnSummaryResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/cashRegister/turn/{id}/summary [get]
func (h *TurnHandler) Summary(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Report godoc
// @Summary Downloads the turn summary as a PDF
// @Tags turn
// @Produce application/pdf
// @Param id path string true "Turn ID"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /api/cashRegister/turn/{id}/report [get]
func (h *TurnHandler) Report(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	summary, err := h.svc.Summary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Render into memory first so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.render(&buf, summary); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="turn-`+summary.TurnID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
