package notify

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EmailConfig holds SMTP delivery configuration.
type EmailConfig struct {
	Host     string // e.g. "smtp.qq.com"
	Port     string // "465" (implicit TLS) or "587" (STARTTLS)
	From     string // sender address, also the auth user
	Password string // SMTP password or app-specific auth code
	To       string // comma-separated recipients
}

type emailNotifier struct {
	cfg EmailConfig
}

// NewEmailNotifier creates an email notifier.
func NewEmailNotifier(cfg EmailConfig) Notifier {
	return &emailNotifier{cfg: cfg}
}

func (e *emailNotifier) Channel() Channel {
	return ChannelEmail
}

func (e *emailNotifier) Send(ctx context.Context, msg Message) error {
	recipients := strings.Split(e.cfg.To, ",")
	for i := range recipients {
		recipients[i] = strings.TrimSpace(recipients[i])
	}

	body, err := buildMIMEMessage(e.cfg.From, recipients, msg)
	if err != nil {
		return err
	}

	client, err := e.dial()
	if err != nil {
		return err
	}
	defer client.Close()

	auth := smtp.PlainAuth("", e.cfg.From, e.cfg.Password, e.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}
	if err := client.Mail(e.cfg.From); err != nil {
		return fmt.Errorf("SMTP MAIL FROM: %w", err)
	}
	for _, to := range recipients {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("SMTP RCPT TO %s: %w", to, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("SMTP write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("SMTP close data: %w", err)
	}
	return client.Quit()
}

// dial connects per the configured port, falling back to the other TLS mode
// when the first attempt fails.
func (e *emailNotifier) dial() (*smtp.Client, error) {
	addr := net.JoinHostPort(e.cfg.Host, e.cfg.Port)

	var client *smtp.Client
	var err error
	if e.cfg.Port == "465" {
		client, err = dialTLS(addr, e.cfg.Host)
	} else {
		client, err = dialSTARTTLS(addr, e.cfg.Host)
	}
	if err == nil {
		return client, nil
	}

	if e.cfg.Port == "465" {
		client, err = dialSTARTTLS(net.JoinHostPort(e.cfg.Host, "587"), e.cfg.Host)
	} else {
		client, err = dialTLS(net.JoinHostPort(e.cfg.Host, "465"), e.cfg.Host)
	}
	if err != nil {
		return nil, fmt.Errorf("SMTP connect failed: %w", err)
	}
	return client, nil
}

func dialTLS(addr, host string) (*smtp.Client, error) {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return nil, fmt.Errorf("TLS dial %s: %w", addr, err)
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("SMTP client: %w", err)
	}
	return client, nil
}

func dialSTARTTLS(addr, host string) (*smtp.Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("SMTP client: %w", err)
	}
	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		client.Close()
		return nil, fmt.Errorf("STARTTLS: %w", err)
	}
	return client, nil
}

// buildMIMEMessage assembles a multipart/mixed message: one HTML (or plain)
// body part plus one part per attachment.
func buildMIMEMessage(from string, to []string, msg Message) ([]byte, error) {
	const boundary = "np-news-collector-boundary"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s <%s>\r\n", encodeRFC2047("News Collector"), from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", encodeRFC2047(msg.Subject)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", boundary))
	sb.WriteString("\r\n")

	// Body
	sb.WriteString("--" + boundary + "\r\n")
	if msg.HTMLBody != "" {
		sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		sb.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		writeBase64(&sb, []byte(msg.HTMLBody))
	} else {
		sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		sb.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		writeBase64(&sb, []byte(msg.Body))
	}

	// Attachments
	for _, path := range msg.Attachments {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attachment %s: %w", path, err)
		}
		name := filepath.Base(path)
		sb.WriteString("--" + boundary + "\r\n")
		sb.WriteString(fmt.Sprintf("Content-Type: application/octet-stream; name=%q\r\n", name))
		sb.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", name))
		sb.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		writeBase64(&sb, data)
	}

	sb.WriteString("--" + boundary + "--\r\n")
	return []byte(sb.String()), nil
}

// encodeRFC2047 encodes a UTF-8 string for email headers.
func encodeRFC2047(s string) string {
	return mime.BEncoding.Encode("UTF-8", s)
}

// writeBase64 writes data base64-encoded with 76-char lines per RFC 2045.
func writeBase64(sb *strings.Builder, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		sb.WriteString(encoded[:76])
		sb.WriteString("\r\n")
		encoded = encoded[76:]
	}
	sb.WriteString(encoded)
	sb.WriteString("\r\n")
}
