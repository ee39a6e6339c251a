package mailer_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"realty/config"
	"realty/infras/mailer"
	"realty/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func mailConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Mail.From = "noreply@example.com"
	cfg.Mail.FromName = "Realty"
	cfg.Mail.Host = "127.0.0.1"
	cfg.Mail.Port = 2525

	return cfg
}

func TestBuild(t *testing.T) {
	msg, err := mailer.Build(mailConfig(), mailer.Mail{
		To:      []string{"ada@example.com"},
		ReplyTo: "ops@example.com",
		Subject: "Your consultation",
		Text:    "See you soon",
		HTML:    "<p>See you soon</p>",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Your consultation")
	assert.Contains(t, raw, "ada@example.com")
	assert.Contains(t, raw, "Reply-To:")
	assert.Contains(t, raw, "ops@example.com")
	assert.Contains(t, raw, "noreply@example.com")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "text/plain")
}

func TestBuild_Invalid(t *testing.T) {
	_, err := mailer.Build(mailConfig(), mailer.Mail{Subject: "x"})
	assert.ErrorIs(t, err, mailer.ErrNoRecipient)

	_, err = mailer.Build(mailConfig(), mailer.Mail{To: []string{"not-an-address"}})
	assert.ErrorIs(t, err, mailer.ErrInvalidAddress)
}

func TestIsPermanent(t *testing.T) {
	_, invalid := mailer.Build(mailConfig(), mailer.Mail{To: []string{"not-an-address"}})

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "no recipient", err: fmt.Errorf("failed to deliver: %w", mailer.ErrNoRecipient), want: true},
		{name: "invalid address", err: invalid, want: true},
		{name: "recipient rejected", err: fmt.Errorf("failed to send mail: %w", &mail.SendError{Reason: mail.ErrSMTPRcptTo}), want: true},
		{name: "sender rejected", err: &mail.SendError{Reason: mail.ErrSMTPMailFrom}, want: true},
		{name: "data interrupted", err: &mail.SendError{Reason: mail.ErrSMTPData}},
		{name: "dial failure", err: errors.New("dial tcp 127.0.0.1:2525: connection refused")},
		{name: "nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mailer.IsPermanent(tt.err))
		})
	}
}

func TestMailer_Disabled(t *testing.T) {
	cfg := mailConfig()
	cfg.Mail.Enable = false

	m := mailer.New(cfg, mocks.NewOtel())
	assert.False(t, m.Enabled())
	assert.NoError(t, m.Send(context.Background(), mailer.Mail{To: []string{"ada@example.com"}}))
}
