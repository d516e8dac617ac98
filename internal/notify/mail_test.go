package notify

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	report := Report{
		Filename: "inactive.csv",
		Data:     []byte("DisplayName,SAMAccountName,Created,LastLogon\nPat Doe,pdoe,2020-01-01 00:00:00,Never Logged In\n"),
		Summary:  "2 inactive account(s) found.",
	}
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	raw, err := BuildMessage("adsweep@corp.example.com", "ops@corp.example.com", report, now)
	require.NoError(t, err)

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Inactive account report", subject)

	var sawBody, sawAttachment bool
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			body, err := io.ReadAll(part.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), "2 inactive account(s) found.")
			sawBody = true
		case *mail.AttachmentHeader:
			name, err := h.Filename()
			require.NoError(t, err)
			assert.Equal(t, "inactive.csv", name)
			data, err := io.ReadAll(part.Body)
			require.NoError(t, err)
			assert.Contains(t, string(data), "pdoe")
			sawAttachment = true
		}
	}
	assert.True(t, sawBody)
	assert.True(t, sawAttachment)
}

func TestBuildMessage_BadAddresses(t *testing.T) {
	_, err := BuildMessage("not an address", "ops@corp.example.com", Report{}, time.Now())
	require.Error(t, err)

	_, err = BuildMessage("adsweep@corp.example.com", "also not one", Report{}, time.Now())
	require.Error(t, err)
}

func TestLogSender(t *testing.T) {
	s := &LogSender{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	err := s.Send(context.Background(), "ops@corp.example.com", Report{Filename: "r.csv"})
	require.NoError(t, err)
}

func TestSMTPConfig_Configured(t *testing.T) {
	assert.False(t, SMTPConfig{}.Configured())
	assert.False(t, SMTPConfig{Host: "mail.corp.example.com"}.Configured())
	assert.True(t, SMTPConfig{Host: "mail.corp.example.com", From: "adsweep@corp.example.com"}.Configured())
}
