// Package contact validates contact form input and hands the message to a mail channel.
package contact

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Tibrahi/portfolio/internal/pkg/log"
)

// Field names a form input. Values match the HTML input names.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// MinMessageLength is counted in characters after trimming.
const MinMessageLength = 10

// Form is the raw user input.
type Form struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Subject string `form:"subject" json:"subject"`
	Message string `form:"message" json:"message"`
}

// Trimmed returns f with surrounding whitespace removed from every field.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Subject: strings.TrimSpace(f.Subject),
		Message: strings.TrimSpace(f.Message),
	}
}

// ValidationError flags every invalid field with its own message.
type ValidationError struct {
	Fields map[Field]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return "contact: invalid " + strings.Join(names, ", ")
}

// Has reports whether f was flagged.
func (e *ValidationError) Has(f Field) bool {
	_, ok := e.Fields[f]
	return ok
}

// Summary is the form-level message shown above the fields.
func (e *ValidationError) Summary() string {
	if len(e.Fields) == 1 {
		for _, msg := range e.Fields {
			return msg
		}
	}
	return "Please fix the highlighted fields."
}

const (
	msgNameRequired    = "Please enter your name."
	msgEmailRequired   = "Please enter your email address."
	msgEmailInvalid    = "Please enter a valid email address."
	msgEmailDisposable = "Disposable email addresses are not accepted."
	msgEmailNoMX       = "This email domain does not seem to accept mail."
	msgSubjectRequired = "Please enter a subject."
	msgMessageTooShort = "Message must be at least 10 characters."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// familiarDomains are large providers that are never MX-checked.
var familiarDomains = map[string]struct{}{
	"gmail.com": {}, "googlemail.com": {}, "yahoo.com": {}, "outlook.com": {},
	"hotmail.com": {}, "live.com": {}, "icloud.com": {}, "me.com": {},
	"proton.me": {}, "protonmail.com": {}, "aol.com": {}, "gmx.com": {},
}

var disposableDomains = map[string]struct{}{
	"mailinator.com": {}, "guerrillamail.com": {}, "10minutemail.com": {},
	"tempmail.com": {}, "temp-mail.org": {}, "yopmail.com": {},
	"trashmail.com": {}, "sharklasers.com": {}, "getnada.com": {},
	"dispostable.com": {}, "throwawaymail.com": {}, "maildrop.cc": {},
}

// MXChecker reports whether a domain publishes mail exchangers.
type MXChecker interface {
	HasMX(ctx context.Context, domain string) (bool, error)
}

// Validator checks a Form. The MX checker is optional.
type Validator struct {
	mx MXChecker
}

// NewValidator returns a Validator; mx may be nil to skip DNS checks.
func NewValidator(mx MXChecker) *Validator {
	return &Validator{mx: mx}
}

// Validate returns the trimmed form, or a *ValidationError naming every bad field.
func (v *Validator) Validate(ctx context.Context, f Form) (Form, error) {
	f = f.Trimmed()
	fields := make(map[Field]string)

	if f.Name == "" {
		fields[FieldName] = msgNameRequired
	}
	if msg := v.CheckEmail(ctx, f.Email); msg != "" {
		fields[FieldEmail] = msg
	}
	if f.Subject == "" {
		fields[FieldSubject] = msgSubjectRequired
	}
	if utf8.RuneCountInString(f.Message) < MinMessageLength {
		fields[FieldMessage] = msgMessageTooShort
	}

	if len(fields) > 0 {
		return f, &ValidationError{Fields: fields}
	}
	return f, nil
}

// CheckEmail validates one address and returns the field message, or "" when it is acceptable.
// It may perform a DNS lookup; callers run it on blur or on submit, not per keystroke.
func (v *Validator) CheckEmail(ctx context.Context, email string) string {
	const op = "contact/form/CheckEmail"

	email = strings.TrimSpace(email)
	if email == "" {
		return msgEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return msgEmailInvalid
	}

	domain := Domain(email)
	if _, ok := disposableDomains[domain]; ok {
		return msgEmailDisposable
	}
	if _, ok := familiarDomains[domain]; ok || v.mx == nil {
		return ""
	}

	ok, err := v.mx.HasMX(ctx, domain)
	if err != nil {
		// a resolver outage never blocks the visitor
		log.From(ctx).Warn("mx_lookup_failed",
			slog.String("op", op),
			slog.String("domain", domain),
			slog.String("err", err.Error()),
		)
		return ""
	}
	if !ok {
		return msgEmailNoMX
	}
	return ""
}

// Domain returns the lowercased part after the last "@".
func Domain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(email[at+1:], "."))
}
