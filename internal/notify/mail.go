// Package notify delivers completed reports to an operator mailbox.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
)

// Report is one exported artifact ready for delivery.
type Report struct {
	Filename string
	Data     []byte
	Summary  string // one-line description used as the message body
}

// Sender delivers a report to a recipient address.
type Sender interface {
	Send(ctx context.Context, to string, report Report) error
}

// SMTPConfig holds the outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// Configured reports whether enough settings are present to send mail.
func (c SMTPConfig) Configured() bool { return c.Host != "" && c.From != "" }

// SMTPSender sends the report as a MIME message with the artifact attached.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender builds a sender from the given settings.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 25
	}
	return &SMTPSender{cfg: cfg}
}

// Send composes and submits the message.
func (s *SMTPSender) Send(ctx context.Context, to string, report Report) error {
	raw, err := BuildMessage(s.cfg.From, to, report, time.Now())
	if err != nil {
		return fmt.Errorf("compose report mail: %w", err)
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, raw); err != nil {
		return fmt.Errorf("send report mail to %s: %w", to, err)
	}
	return nil
}

// BuildMessage renders the RFC 5322 message with the report attached as
// text/csv. Split out as a pure function so composition is testable without
// a mail server.
func BuildMessage(from, to string, report Report, now time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(now)
	h.SetSubject("Inactive account report")
	if err := h.GenerateMessageID(); err != nil {
		return nil, err
	}
	fromAddr, err := netmail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("bad from address %q: %w", from, err)
	}
	toAddr, err := netmail.ParseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("bad recipient address %q: %w", to, err)
	}
	h.SetAddressList("From", []*mail.Address{{Name: fromAddr.Name, Address: fromAddr.Address}})
	h.SetAddressList("To", []*mail.Address{{Name: toAddr.Name, Address: toAddr.Address}})

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, err
	}

	var ih mail.InlineHeader
	ih.Set("Content-Type", "text/plain; charset=utf-8")
	body, err := mw.CreateSingleInline(ih)
	if err != nil {
		return nil, err
	}
	if _, err := body.Write([]byte(report.Summary + "\r\n")); err != nil {
		return nil, err
	}
	if err := body.Close(); err != nil {
		return nil, err
	}

	var ah mail.AttachmentHeader
	ah.Set("Content-Type", "text/csv; charset=utf-8")
	ah.SetFilename(report.Filename)
	att, err := mw.CreateAttachment(ah)
	if err != nil {
		return nil, err
	}
	if _, err := att.Write(report.Data); err != nil {
		return nil, err
	}
	if err := att.Close(); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LogSender is the default sender when no SMTP host is configured: it logs
// what would have been delivered instead of sending anything.
type LogSender struct {
	Logger *slog.Logger
}

// Send logs the delivery.
func (s *LogSender) Send(_ context.Context, to string, report Report) error {
	s.Logger.Info("mail delivery skipped: SMTP not configured",
		"to", to, "attachment", report.Filename, "bytes", len(report.Data))
	return nil
}
