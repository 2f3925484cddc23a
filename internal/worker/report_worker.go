// Package worker turns queued report requests into emailed PDF reports.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hisab/internal/amqp"
	"hisab/internal/core"
	"hisab/internal/mail"
	"hisab/internal/pdf"
	"hisab/internal/report"
	"hisab/internal/store"
)

// ReportWorker resolves the requested window, aggregates the owner's
// transactions, renders the PDF and mails it to the requested address.
type ReportWorker struct {
	aggregator *report.Aggregator
	renderer   *pdf.Renderer
	sender     mail.Sender
}

func NewReportWorker(st store.ReportStore, renderer *pdf.Renderer, sender mail.Sender) *ReportWorker {
	return &ReportWorker{
		aggregator: report.NewAggregator(st),
		renderer:   renderer,
		sender:     sender,
	}
}

// HandleReportRequest processes a single report request from AMQP.
func (w *ReportWorker) HandleReportRequest(ctx context.Context, msg *amqp.ReportRequest) error {
	slog.InfoContext(ctx, "Processing report request",
		"owner", msg.OwnerID,
		"email", msg.Email)

	q := core.WindowQuery{
		Filter:    msg.Filter,
		Date:      msg.Date,
		From:      msg.From,
		To:        msg.To,
		WeekStart: msg.WeekStart,
	}
	window, err := core.ResolveWindow(q, time.Now())
	if err != nil {
		// A malformed request will never succeed on retry.
		slog.ErrorContext(ctx, "Dropping report request with invalid window",
			"error", err, "owner", msg.OwnerID)
		return nil
	}

	summary, err := w.aggregator.Aggregate(ctx, msg.OwnerID, window)
	if err != nil {
		return fmt.Errorf("aggregate report data: %w", err)
	}
	summary = summary.WithMeta(window, report.Applied{
		Filter:    msg.Filter,
		Date:      msg.Date,
		From:      msg.From,
		To:        msg.To,
		WeekStart: msg.WeekStart,
	})

	generatedAt := time.Now()
	pdfBytes, err := w.renderer.Render(summary, generatedAt)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	subject := "Daily Financial Report - " + generatedAt.UTC().Format("02 Jan 2006")
	body := fmt.Sprintf("Please find attached your financial report.\n\nTotal deposits: %s\nTotal expenses: %s\nBalance: %s\n",
		summary.TotalDeposits, summary.TotalExpenses, summary.Balance)

	err = w.sender.Send(ctx, msg.Email, subject, body, mail.Attachment{
		Filename:    "daily-report-" + generatedAt.UTC().Format("2006-01-02") + ".pdf",
		ContentType: "application/pdf",
		Data:        pdfBytes,
	})
	if err != nil {
		return fmt.Errorf("send report mail: %w", err)
	}

	slog.InfoContext(ctx, "Report delivered",
		"owner", msg.OwnerID,
		"email", msg.Email,
		"pdf_bytes", len(pdfBytes))
	return nil
}
