// Package mailer sends the HTML notification e-mails of the request workflow.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// ErrNoRecipients is returned when a message has nobody to go to.
var ErrNoRecipients = errors.New("mailer: no recipients")

// File is an attachment carried in memory.
type File struct {
	Name string
	Data []byte
}

// Message is one outbound e-mail.
type Message struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []File
}

// Recipients returns the non-blank addresses of m.
func (m Message) Recipients() []string {
	out := make([]string, 0, len(m.To))
	for _, to := range m.To {
		if to = strings.TrimSpace(to); to != "" {
			out = append(out, to)
		}
	}
	return out
}

// Sender is what the workflow needs from a mailer.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds the SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer delivers through an SMTP relay.
type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPMailer{
		from:   from,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Send reports every failure as an error, panics included.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mailer: send panicked: %v", r)
		}
	}()

	to := msg.Recipients()
	if len(to) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", to...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTMLBody)
	for _, f := range msg.Attachments {
		data := f.Data
		gm.Attach(f.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", strings.Join(to, ","), err)
	}
	logrus.WithFields(logrus.Fields{"to": to, "subject": msg.Subject}).Info("e-mail sent")
	return nil
}

// NopMailer only logs. It stands in when SMTP is not configured.
type NopMailer struct{}

func (NopMailer) Send(ctx context.Context, msg Message) error {
	to := msg.Recipients()
	if len(to) == 0 {
		return ErrNoRecipients
	}
	logrus.WithFields(logrus.Fields{"to": to, "subject": msg.Subject}).Warn("smtp not configured, e-mail skipped")
	return nil
}
