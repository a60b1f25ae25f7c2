package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"healthplanet-notify/internal/components/telemetry"

	"github.com/jordan-wright/email"
)

const report_mail_notify = "mail.notify"

type MailOptions struct {
	// Addr is host:port of the SMTP server.
	Addr     string
	Username string
	Password string
	From     string
	To       []string
	Subject  string
}

// Mail sends the message text as a plain text email.
type Mail struct {
	options MailOptions
	send    func(addr string, auth smtp.Auth, e *email.Email) error
	tel     telemetry.API
}

func NewMail(options MailOptions, tel telemetry.API) Mail {
	if options.Subject == "" {
		options.Subject = "Health Planet"
	}
	return Mail{
		options: options,
		send: func(addr string, auth smtp.Auth, e *email.Email) error {
			return e.Send(addr, auth)
		},
		tel: telemetry.NewScopedAPI("notify", tel),
	}
}

func (m Mail) build(msg Message) *email.Email {
	e := email.NewEmail()
	e.From = m.options.From
	e.To = m.options.To
	e.Subject = m.options.Subject
	e.Text = []byte(msg.Text)
	return e
}

func (m Mail) Notify(ctx context.Context, msg Message) error {
	var auth smtp.Auth
	if m.options.Username != "" {
		host, _, err := net.SplitHostPort(m.options.Addr)
		if err != nil {
			m.tel.ReportBroken(report_mail_notify, fmt.Errorf("split addr: %w", err), m.options.Addr)
			return fmt.Errorf("notify: mail: %w", err)
		}
		auth = smtp.PlainAuth("", m.options.Username, m.options.Password, host)
	}

	err := m.send(m.options.Addr, auth, m.build(msg))
	if err != nil {
		m.tel.ReportBroken(report_mail_notify, err, m.options.Addr)
		return fmt.Errorf("notify: mail: %w", err)
	}

	slog.InfoContext(ctx, "mail sent", "to", m.options.To)
	return nil
}
