package contact

import (
	"fmt"
	"net/url"
	"strings"
)

// Mail is the composed message, independent of how it leaves the server.
type Mail struct {
	To        string
	FromName  string
	FromEmail string
	Subject   string
	Message   string
	Body      string
}

const bodyTemplate = `Name: %s
Email: %s

Message:
%s

-------------------------
Sent via Portfolio Contact Form`

// Compose builds the mail for a validated form.
func Compose(to string, f Form) Mail {
	return Mail{
		To:        to,
		FromName:  f.Name,
		FromEmail: f.Email,
		Subject:   f.Subject,
		Message:   f.Message,
		Body:      fmt.Sprintf(bodyTemplate, f.Name, f.Email, f.Message),
	}
}

// MailtoURI returns mailto:{to}?subject=..&body=.. with RFC 3986 percent-encoding.
func (m Mail) MailtoURI() string {
	return "mailto:" + m.To + "?subject=" + escapeComponent(m.Subject) + "&body=" + escapeComponent(m.Body)
}

// escapeComponent encodes spaces as %20; mail clients show a literal "+" otherwise.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
