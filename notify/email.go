package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const senderName = "Crypto Bot"

// Mailer sends an HTML message to the configured recipient.
type Mailer interface {
	Send(ctx context.Context, subject, html string) error
}

// SMTPConfig holds the mail server settings.
type SMTPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	To       string
	// Footer is appended under the body, e.g. the monitored timeframe.
	Footer string
}

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// Email sends HTML mail over SMTP. Port 465 uses implicit TLS; any other
// port goes through smtp.SendMail, which upgrades with STARTTLS when the
// server offers it.
type Email struct {
	cfg  SMTPConfig
	send sendFunc
	now  func() time.Time
	log  zerolog.Logger
}

func NewEmail(cfg SMTPConfig, log zerolog.Logger) *Email {
	e := &Email{
		cfg: cfg,
		now: time.Now,
		log: log.With().Str("component", "email").Logger(),
	}
	if cfg.Port == 465 {
		e.send = sendTLS
	} else {
		e.send = smtp.SendMail
	}
	return e
}

func (e *Email) Enabled() bool { return e.cfg.Enabled }

// Send delivers the message. A disabled mailer logs and reports success.
func (e *Email) Send(_ context.Context, subject, html string) error {
	if !e.cfg.Enabled {
		e.log.Info().Str("subject", subject).Msg("email disabled, skipping")
		return nil
	}

	addr := net.JoinHostPort(e.cfg.Host, strconv.Itoa(e.cfg.Port))
	auth := smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	msg := e.message(subject, html)

	if err := e.send(addr, auth, e.cfg.Username, []string{e.cfg.To}, msg); err != nil {
		return fmt.Errorf("%w: smtp %s: %v", ErrTransport, addr, err)
	}
	e.log.Info().Str("subject", subject).Str("to", e.cfg.To).Msg("email sent")
	return nil
}

func (e *Email) message(subject, html string) []byte {
	from := fmt.Sprintf("%s <%s>", senderName, e.cfg.Username)

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + e.cfg.To + "\r\n")
	b.WriteString("Subject: " + encodeSubject(subject) + "\r\n")
	b.WriteString("Date: " + e.now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(Wrap(html, e.cfg.Footer))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// encodeSubject applies RFC 2047 encoding when the subject is not ASCII.
func encodeSubject(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.QEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

// Wrap places body inside the bot's HTML frame.
func Wrap(body, footer string) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: Arial, sans-serif; color: #333;">`)
	b.WriteString(`<div style="border-bottom: 2px solid #0d6efd; padding-bottom: 10px; margin-bottom: 20px;">`)
	b.WriteString(`<h2 style="margin: 0; color: #0d6efd;">` + senderName + `</h2></div>`)
	b.WriteString(`<div style="line-height: 1.6;">` + body + `</div>`)
	b.WriteString(`<hr style="border: 0; border-top: 1px solid #eee; margin: 30px 0 10px 0;">`)
	b.WriteString(`<p style="color: #999; font-size: 12px; margin: 0;">Sent automatically by the trading bot.`)
	if footer != "" {
		b.WriteString("<br>" + footer)
	}
	b.WriteString(`</p></body></html>`)
	return b.String()
}

// sendTLS sends over an implicit TLS connection (port 465).
func sendTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}
	return client.Quit()
}
