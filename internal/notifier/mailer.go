package notifier

import (
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// ErrDeliveryFailed reports that every send attempt failed. It wraps the
// last underlying transport error.
var ErrDeliveryFailed = errors.New("alert delivery failed")

// Transport sends one composed message. Each call owns its connection:
// it is opened, used, and fully torn down within the call.
type Transport interface {
	Send(subject, body string) error
}

// SMTPTransport sends plain-text mail over SMTP, upgrading the plaintext
// connection with STARTTLS before authenticating.
type SMTPTransport struct {
	Host        string
	Port        int
	Sender      string
	Password    string
	Recipient   string
	DialTimeout time.Duration
}

func (t *SMTPTransport) Send(subject, body string) error {
	addr := net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
	conn, err := net.DialTimeout("tcp", addr, t.DialTimeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	// One deadline covers the whole session, not just the dial; a server
	// that accepts and then hangs mid-handshake must not stall the attempt.
	if t.DialTimeout > 0 {
		conn.SetDeadline(time.Now().Add(t.DialTimeout))
	}
	c, err := smtp.NewClient(conn, t.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	// Close releases the connection on every exit path; after a clean Quit
	// it is a no-op error we don't care about.
	defer c.Close()

	if err := c.StartTLS(&tls.Config{ServerName: t.Host}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}
	auth := smtp.PlainAuth("", t.Sender, t.Password, t.Host)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(t.Sender); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(t.Recipient); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMessage(t.Sender, t.Recipient, subject, body)); err != nil {
		w.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}
	return c.Quit()
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// Mailer adds the bounded retry policy on top of a Transport: up to
// MaxRetries attempts with a fixed delay in between, no backoff growth.
type Mailer struct {
	Transport  Transport
	MaxRetries int
	RetryDelay time.Duration

	sleep func(time.Duration) // test hook
}

// NewMailer creates a Mailer with the given retry policy.
func NewMailer(t Transport, maxRetries int, retryDelay time.Duration) *Mailer {
	return &Mailer{
		Transport:  t,
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
		sleep:      time.Sleep,
	}
}

// Notify sends one message. Success at any attempt stops immediately;
// exhausting all attempts surfaces ErrDeliveryFailed with the last cause.
func (m *Mailer) Notify(subject, body string) error {
	var lastErr error
	for attempt := 1; attempt <= m.MaxRetries; attempt++ {
		err := m.Transport.Send(subject, body)
		if err == nil {
			if attempt > 1 {
				log.Printf("[INFO] mail sent on attempt %d/%d", attempt, m.MaxRetries)
			}
			return nil
		}
		lastErr = err
		log.Printf("[WARN] mail send failed (attempt %d/%d): %v", attempt, m.MaxRetries, err)
		if attempt < m.MaxRetries {
			m.sleep(m.RetryDelay)
		}
	}
	return fmt.Errorf("%w: all %d attempts failed: %w", ErrDeliveryFailed, m.MaxRetries, lastErr)
}
