package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realty/config"
	"realty/infras/metrics"
	"realty/infras/otel"
	"realty/shared/constant"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"
)

var (
	ErrNoRecipient    = errors.New("mail has no recipient")
	ErrInvalidAddress = errors.New("invalid mail address")
)

type Mail struct {
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, m Mail) error
	Enabled() bool
}

type mailerImpl struct {
	config *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Mailer {
	if !cfg.Mail.Enable {
		log.Warn().Msg("Mail delivery disabled, messages will only be logged")
	}

	return &mailerImpl{
		config: cfg,
		otel:   otl,
	}
}

func (m *mailerImpl) Enabled() bool {
	return m.config.Mail.Enable
}

func (m *mailerImpl) Send(ctx context.Context, msg Mail) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelMailerScopeName, constant.OtelMailerScopeName+".Send")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("mail.subject", msg.Subject)

	if !m.Enabled() {
		log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("mail disabled, dropping message")

		return nil
	}

	built, err := Build(m.config, msg)
	if err != nil {
		return err
	}

	client, err := m.client()
	if err != nil {
		return err
	}

	start := time.Now()
	err = client.DialAndSendWithContext(ctx, built)
	metrics.ObserveExternal(metrics.ServiceSMTP, "send", err, time.Since(start))

	if err != nil {
		log.Error().Err(err).Strs("to", msg.To).Msg("failed to send mail")

		return fmt.Errorf("failed to send mail: %w", err)
	}

	log.Debug().Strs("to", msg.To).Str("subject", msg.Subject).Msg("mail sent")

	return nil
}

func (m *mailerImpl) client() (*mail.Client, error) {
	cfg := m.config.Mail

	policy := mail.NoTLS
	if cfg.TLS {
		policy = mail.TLSOpportunistic
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(policy),
		mail.WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return client, nil
}

// IsPermanent reports whether retrying msg can never succeed: it has no usable address or the
// server rejected the envelope outright.
func IsPermanent(err error) bool {
	if errors.Is(err, ErrNoRecipient) || errors.Is(err, ErrInvalidAddress) {
		return true
	}

	var sendErr *mail.SendError
	if !errors.As(err, &sendErr) || sendErr.IsTemp() {
		return false
	}

	switch sendErr.Reason {
	case mail.ErrGetSender, mail.ErrGetRcpts, mail.ErrSMTPMailFrom, mail.ErrSMTPRcptTo:
		return true
	default:
		return false
	}
}

// Build renders msg with the configured sender. HTML is attached as an alternative part.
func Build(cfg *config.Config, msg Mail) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, ErrNoRecipient
	}

	built := mail.NewMsg()

	var err error
	if cfg.Mail.FromName != "" {
		err = built.FromFormat(cfg.Mail.FromName, cfg.Mail.From)
	} else {
		err = built.From(cfg.Mail.From)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: sender: %w", ErrInvalidAddress, err)
	}

	if err = built.To(msg.To...); err != nil {
		return nil, fmt.Errorf("%w: recipient: %w", ErrInvalidAddress, err)
	}

	if msg.ReplyTo != "" {
		if err = built.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("%w: reply-to: %w", ErrInvalidAddress, err)
		}
	}

	built.Subject(msg.Subject)
	built.SetDate()
	built.SetMessageID()
	built.SetBodyString(mail.TypeTextPlain, msg.Text)

	if msg.HTML != "" {
		built.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	return built, nil
}
