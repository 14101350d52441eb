package infra

// pdf.go renders the closing report of a turn with go-pdf/fpdf:
//   - register and operator header
//   - opening / closing timestamps
//   - the reconciliation table (base, sales, withdrawals, expected, declared)
//   - imbalance logs reported at close

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sebassmtz/backend-stockpro/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const reportTimeLayout = "02/01/2006 15:04"

// RenderTurnReport writes the report for summary to w.
func RenderTurnReport(w io.Writer, summary *dto.TurnSummaryResponse) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20
	labelW := contentW * 0.6
	valueW := contentW - labelW

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Turn closing report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, summary.CashRegisterName, "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Turn info ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	row := func(label, value string) {
		pdf.CellFormat(labelW, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 5, value, "", 1, "R", false, 0, "")
	}
	row("Turn", summary.TurnID)
	row("Operator", summary.Operator)
	row("Opened", summary.DateTimeStart.Format(reportTimeLayout))
	row("Closed", formatOptionalTime(summary.DateTimeEnd))
	pdf.Ln(2)

	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Reconciliation ───────────────────────────────────────────────────────
	row("Base cash", money(summary.BaseCash))
	row(fmt.Sprintf("Sales (%d)", summary.SalesCount), money(summary.SalesTotal))
	row(fmt.Sprintf("Withdrawals (%d)", summary.WithdrawalsCount), "-"+money(summary.WithdrawalsTotal))

	pdf.SetFont("Helvetica", "B", 9)
	row("Expected cash", money(summary.ExpectedCash))
	pdf.SetFont("Helvetica", "", 8)
	row("Declared cash", optionalMoney(summary.FinalCash))
	pdf.SetFont("Helvetica", "B", 9)
	row("Difference", optionalMoney(summary.Difference))

	// ── Imbalances ───────────────────────────────────────────────────────────
	if len(summary.Imbalances) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(labelW, 5, "Reported imbalance", "B", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 5, "Value", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		for _, l := range summary.Imbalances {
			desc := l.Description
			if len(desc) > 48 {
				desc = desc[:47] + "..."
			}
			row(desc, money(l.Value))
		}
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Generated "+time.Now().Format(reportTimeLayout), "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render: %w", err)
	}
	return nil
}

// GenerateTurnReportPDF writes the report to storagePath/turn_<id>.pdf
// (directory created if needed) and returns the file path.
func GenerateTurnReportPDF(summary *dto.TurnSummaryResponse, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("turn_%s.pdf", summary.TurnID))
	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	if err := RenderTurnReport(f, summary); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func money(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

func optionalMoney(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return money(*d)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "open"
	}
	return t.Format(reportTimeLayout)
}
