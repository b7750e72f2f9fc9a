// Copyright © 2023 EcoSwell

// Package mailer emails finished logs.
package mailer

import (
	"context"
	"net/textproto"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	mail "gopkg.in/mail.v2"
)

var (
	ErrNoAttachments = errors.New("no finished logs to send")
	ErrNoRecipient   = errors.New("no recipient configured")
)

const (
	DefaultPort       = 587
	DefaultRetries    = 8
	DefaultMaxElapsed = 10 * time.Minute
)

// Config describes the SMTP account and the retry policy.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string

	// Retries is the number of attempts after the first; 0 sends once.
	Retries    uint64
	MaxElapsed time.Duration
}

// Sender delivers messages; *mail.Dialer is the production implementation.
type Sender interface {
	DialAndSend(m ...*mail.Message) error
}

type Mailer struct {
	cfg     Config
	sender  Sender
	backoff func() backoff.BackOff
}

// New returns a Mailer. A nil sender dials cfg.Host with STARTTLS.
func New(cfg Config, sender Sender) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.MaxElapsed == 0 {
		cfg.MaxElapsed = DefaultMaxElapsed
	}
	if sender == nil {
		d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		d.StartTLSPolicy = mail.MandatoryStartTLS
		sender = d
	}
	m := &Mailer{cfg: cfg, sender: sender}
	m.backoff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 10 * time.Second
		b.MaxElapsedTime = m.cfg.MaxElapsed
		return b
	}
	return m
}

// Subject names the mail after the time it is sent.
func Subject(t time.Time) string {
	return "Multi-sensor data " + t.Format("02.01.2006") + "-" + t.Format("15:04:05")
}

func (m *Mailer) message(files []string, now time.Time) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.To)
	msg.SetHeader("Subject", Subject(now))
	msg.SetBody("text/plain", "Sensor readings attached.")
	for _, f := range files {
		msg.Attach(f, mail.Rename(filepath.Base(f)))
	}
	return msg
}

// Send mails files as attachments of a single message. Transient failures
// are retried with exponential backoff; rejected credentials or addresses
// are not.
func (m *Mailer) Send(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return ErrNoAttachments
	}
	if m.cfg.To == "" {
		return ErrNoRecipient
	}
	msg := m.message(files, time.Now())

	attempt := 0
	op := func() error {
		attempt++
		err := m.sender.DialAndSend(msg)
		if err == nil {
			return nil
		}
		if permanent(err) {
			return backoff.Permanent(err)
		}
		jww.WARN.Printf("Sending mail failed (attempt %d): %v", attempt, err)
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(m.backoff(), m.cfg.Retries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return errors.Wrapf(err, "send %d file(s) to %s", len(files), m.cfg.To)
	}
	jww.INFO.Printf("Mailed %d file(s) to %s", len(files), m.cfg.To)
	return nil
}

// permanent reports SMTP 5xx replies, which retrying cannot fix.
func permanent(err error) bool {
	var tp *textproto.Error
	if errors.As(err, &tp) {
		return tp.Code >= 500
	}
	return false
}
