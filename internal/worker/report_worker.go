package worker

// report_worker.go
// Processes closing-report jobs from QueueTurnReport:
//  1. load the turn summary
//  2. render it to REPORT_STORAGE_PATH as a PDF
//  3. enqueue an email carrying the PDF for the notify address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sebassmtz/backend-stockpro/internal/apierror"
	"github.com/sebassmtz/backend-stockpro/internal/dto"
	"github.com/sebassmtz/backend-stockpro/internal/infra"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TurnReportJobPayload is the job envelope sent to QueueTurnReport.
type TurnReportJobPayload struct {
	TurnID      string `json:"turn_id"`
	NotifyEmail string `json:"notify_email"`
}

// SummarySource loads reconciliation data. service.TurnService implements it.
type SummarySource interface {
	Summary(ctx context.Context, turnID uuid.UUID) (*dto.TurnSummaryResponse, error)
}

// EmailEnqueuer is implemented by *Dispatcher.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

type TurnReportWorker struct {
	summaries   SummarySource
	emails      EmailEnqueuer
	storagePath string
}

func NewTurnReportWorker(summaries SummarySource, emails EmailEnqueuer, storagePath string) *TurnReportWorker {
	return &TurnReportWorker{summaries: summaries, emails: emails, storagePath: storagePath}
}

func (w *TurnReportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload TurnReportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Permanent(fmt.Errorf("report_worker: invalid payload: %w", err))
	}
	turnID, err := uuid.Parse(payload.TurnID)
	if err != nil {
		return Permanent(fmt.Errorf("report_worker: invalid turn_id %q", payload.TurnID))
	}

	summary, err := w.summaries.Summary(ctx, turnID)
	if err != nil {
		var domainErr *apierror.Error
		if errors.As(err, &domainErr) && domainErr.Kind == apierror.KindNotFound {
			return Permanent(fmt.Errorf("report_worker: %w", err))
		}
		return fmt.Errorf("report_worker: load summary: %w", err)
	}

	path, err := infra.GenerateTurnReportPDF(summary, w.storagePath)
	if err != nil {
		return fmt.Errorf("report_worker: %w", err)
	}
	log.Info().Str("turn_id", summary.TurnID).Str("path", path).Msg("report_worker: report generated")

	if payload.NotifyEmail == "" {
		return nil
	}
	return w.emails.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail:        payload.NotifyEmail,
		Subject:        "Turn closed: " + summary.CashRegisterName,
		Body:           reportBody(summary),
		AttachmentPath: path,
	})
}

func reportBody(s *dto.TurnSummaryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cash register: %s\n", s.CashRegisterName)
	fmt.Fprintf(&b, "Operator: %s\n", s.Operator)
	fmt.Fprintf(&b, "Expected cash: %s\n", s.ExpectedCash.StringFixed(2))
	if s.FinalCash != nil {
		fmt.Fprintf(&b, "Declared cash: %s\n", s.FinalCash.StringFixed(2))
	}
	if s.Difference != nil {
		fmt.Fprintf(&b, "Difference: %s\n", s.Difference.StringFixed(2))
	}
	for _, l := range s.Imbalances {
		fmt.Fprintf(&b, "Imbalance reported: %s (%s)\n", l.Value.StringFixed(2), l.Description)
	}
	return b.String()
}
