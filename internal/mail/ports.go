// Package mail defines the outbound port for report delivery.
package mail

import "context"

// Attachment is a file included with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string, attachments ...Attachment) error
}
