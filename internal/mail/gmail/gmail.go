// Package gmail sends report emails through the Gmail API using an OAuth
// token produced by cmd/oauth-init.
package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	goption "google.golang.org/api/option"

	ports "hisab/internal/mail"
)

type Client struct {
	svc  *gmailapi.Service
	from string
}

var _ ports.Sender = (*Client)(nil)

// NewFromEnv creates a Gmail client using environment variables.
// Required: GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE, plus
// GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE.
// Optional: REPORT_FROM_ADDRESS (defaults to the authorized account).
func NewFromEnv(ctx context.Context) (*Client, error) {
	clientJSON := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	clientFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))

	var credentials []byte
	var err error
	switch {
	case clientJSON != "":
		credentials = []byte(clientJSON)
	case clientFile != "":
		credentials, err = os.ReadFile(clientFile)
		if err != nil {
			return nil, fmt.Errorf("read oauth client file: %w", err)
		}
	default:
		return nil, errors.New("missing oauth client (set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE)")
	}

	cfg, err := google.ConfigFromJSON(credentials, gmailapi.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}

	tok, err := tokenFromEnv()
	if err != nil {
		return nil, err
	}

	svc, err := gmailapi.NewService(ctx, goption.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}

	return &Client{
		svc:  svc,
		from: strings.TrimSpace(os.Getenv("REPORT_FROM_ADDRESS")),
	}, nil
}

func tokenFromEnv() (*oauth2.Token, error) {
	tokenJSON := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_TOKEN_JSON"))
	tokenFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"))

	var raw []byte
	var err error
	switch {
	case tokenJSON != "":
		raw = []byte(tokenJSON)
	case tokenFile != "":
		raw, err = os.ReadFile(tokenFile)
		if err != nil {
			return nil, fmt.Errorf("read oauth token file: %w", err)
		}
	default:
		return nil, errors.New("missing oauth token (set GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE, run oauth-init first)")
	}

	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}
	return &tok, nil
}

// Send builds a MIME message and submits it as the authorized user.
func (c *Client) Send(ctx context.Context, to, subject, body string, attachments ...ports.Attachment) error {
	raw, err := buildMIME(c.from, to, subject, body, attachments)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	msg := &gmailapi.Message{Raw: base64.URLEncoding.EncodeToString(raw)}
	if _, err := c.svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func buildMIME(from, to, subject, body string, attachments []ports.Attachment) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if from != "" {
		fmt.Fprintf(&buf, "From: %s\r\n", from)
	}
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=UTF-8")
	part, err := w.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(body)); err != nil {
		return nil, err
	}

	for _, a := range attachments {
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		attHeader := textproto.MIMEHeader{}
		attHeader.Set("Content-Type", contentType)
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
		part, err := w.CreatePart(attHeader)
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(a.Data)
		if _, err := part.Write([]byte(encoded)); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
