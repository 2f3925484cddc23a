package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hisab/internal/amqp"
	"hisab/internal/core"
	"hisab/internal/mail"
	"hisab/internal/pdf"
	"hisab/internal/storage"
)

type fakeSender struct {
	sent []sentMail
	fail bool
}

type sentMail struct {
	to, subject, body string
	attachments       []mail.Attachment
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string, attachments ...mail.Attachment) error {
	if f.fail {
		return errors.New("smtp on fire")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body, attachments: attachments})
	return nil
}

func newWorker(t *testing.T, sender mail.Sender) (*ReportWorker, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore()
	return NewReportWorker(mem, pdf.NewRenderer(pdf.Options{}), sender), mem
}

func TestHandleReportRequestSendsPDF(t *testing.T) {
	sender := &fakeSender{}
	w, mem := newWorker(t, sender)

	_, err := mem.CreateTransaction(context.Background(), core.Expense, core.Transaction{
		OwnerID:     "u1",
		Description: "lunch",
		Amount:      core.Money{Cents: 750},
		Date:        time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	msg := &amqp.ReportRequest{OwnerID: "u1", Email: "user@example.com", From: "2025-06-01", To: "2025-06-30"}
	if err := w.HandleReportRequest(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(sender.sent))
	}
	got := sender.sent[0]
	if got.to != "user@example.com" {
		t.Errorf("to = %q", got.to)
	}
	if !strings.Contains(got.body, "7.50") {
		t.Errorf("body should carry the expense total: %q", got.body)
	}
	if len(got.attachments) != 1 {
		t.Fatalf("attachments = %d, want 1", len(got.attachments))
	}
	att := got.attachments[0]
	if att.ContentType != "application/pdf" || !strings.HasSuffix(att.Filename, ".pdf") {
		t.Errorf("attachment = %q %q", att.Filename, att.ContentType)
	}
	if !strings.HasPrefix(string(att.Data), "%PDF") {
		t.Error("attachment is not a PDF document")
	}
}

func TestHandleReportRequestInvalidWindowIsDropped(t *testing.T) {
	sender := &fakeSender{}
	w, _ := newWorker(t, sender)

	msg := &amqp.ReportRequest{OwnerID: "u1", Email: "user@example.com", Date: "02-06-2025"}
	if err := w.HandleReportRequest(context.Background(), msg); err != nil {
		t.Fatalf("invalid window should be dropped, not retried: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d mails, want none", len(sender.sent))
	}
}

func TestHandleReportRequestSendFailurePropagates(t *testing.T) {
	sender := &fakeSender{fail: true}
	w, _ := newWorker(t, sender)

	msg := &amqp.ReportRequest{OwnerID: "u1", Email: "user@example.com"}
	if err := w.HandleReportRequest(context.Background(), msg); err == nil {
		t.Fatal("expected error so the message gets requeued")
	}
}
