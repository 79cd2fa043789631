package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/smtp"
	"strings"
	"time"
)

// Relay delivers a composed mail through a third party.
type Relay interface {
	Name() string
	Send(ctx context.Context, m Mail) error
}

// IntegrationError is a relay failure. It is shown as a form-level error with a
// link to email the owner directly.
type IntegrationError struct {
	Relay      string
	StatusCode int
	Fallback   string // mailto URI of the unsent message
	Err        error
}

func (e *IntegrationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s relay: status %d: %v", e.Relay, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s relay: %v", e.Relay, e.Err)
}

func (e *IntegrationError) Unwrap() error { return e.Err }

// Message is the user-facing text.
func (e *IntegrationError) Message() string {
	return "Sorry, your message could not be sent. Please try emailing me directly."
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPRelay sends through an authenticated SMTP submission server.
type SMTPRelay struct {
	host     string
	addr     string
	user     string
	pass     string
	sendMail sendMailFunc
}

// NewSMTPRelay returns a relay for host:port using PLAIN auth.
func NewSMTPRelay(host, port, user, pass string) *SMTPRelay {
	return &SMTPRelay{
		host:     host,
		addr:     net.JoinHostPort(host, port),
		user:     user,
		pass:     pass,
		sendMail: smtp.SendMail,
	}
}

func (r *SMTPRelay) Name() string { return "smtp" }

// Send blocks until the server accepts the message or ctx is done.
func (r *SMTPRelay) Send(ctx context.Context, m Mail) error {
	if r.user == "" || r.pass == "" {
		return &IntegrationError{Relay: r.Name(), Err: errors.New("SMTP credentials not configured")}
	}

	subject := mime.QEncoding.Encode("utf-8", "Portfolio Contact: "+headerSafe(m.Subject))
	msg := []byte("To: " + m.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + r.user + "\r\n" +
		"Reply-To: " + headerSafe(m.FromEmail) + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		strings.ReplaceAll(m.Body, "\n", "\r\n") + "\r\n")

	auth := smtp.PlainAuth("", r.user, r.pass, r.host)

	done := make(chan error, 1)
	go func() { done <- r.sendMail(r.addr, auth, r.user, []string{m.To}, msg) }()

	select {
	case err := <-done:
		if err != nil {
			return &IntegrationError{Relay: r.Name(), Err: err}
		}
		return nil
	case <-ctx.Done():
		return &IntegrationError{Relay: r.Name(), Err: ctx.Err()}
	}
}

// headerSafe drops CR and LF so user input cannot add headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(s)
}

// EmailJSRelay posts to the EmailJS REST endpoint. A 200 means accepted.
type EmailJSRelay struct {
	url        string
	serviceID  string
	templateID string
	publicKey  string
	client     *http.Client
}

// NewEmailJSRelay returns a relay for the given EmailJS service and template.
func NewEmailJSRelay(endpoint, serviceID, templateID, publicKey string, timeout time.Duration) *EmailJSRelay {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmailJSRelay{
		url:        endpoint,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
		client:     &http.Client{Timeout: timeout},
	}
}

func (r *EmailJSRelay) Name() string { return "emailjs" }

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func (r *EmailJSRelay) Send(ctx context.Context, m Mail) error {
	payload, err := json.Marshal(emailJSRequest{
		ServiceID:  r.serviceID,
		TemplateID: r.templateID,
		UserID:     r.publicKey,
		TemplateParams: map[string]string{
			"from_name":  m.FromName,
			"from_email": m.FromEmail,
			"reply_to":   m.FromEmail,
			"to_email":   m.To,
			"subject":    m.Subject,
			"message":    m.Message,
		},
	})
	if err != nil {
		return &IntegrationError{Relay: r.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return &IntegrationError{Relay: r.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return &IntegrationError{Relay: r.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		reason := strings.TrimSpace(string(text))
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return &IntegrationError{Relay: r.Name(), StatusCode: resp.StatusCode, Err: errors.New(reason)}
	}
	return nil
}
