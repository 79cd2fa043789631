package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tibrahi/portfolio/internal/fetchstate"
	"github.com/Tibrahi/portfolio/internal/pkg/log"
)

// Delivery modes.
const (
	ModeMailto  = "mailto"
	ModeSMTP    = "smtp"
	ModeEmailJS = "emailjs"
)

// Submission outcomes reported to the Observer.
const (
	OutcomeSent    = "sent"
	OutcomeHandoff = "handoff"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// ErrInFlight is returned while a previous relay call of the same visitor is pending.
var ErrInFlight = errors.New("contact: a message is already being sent")

// Archived is a submitted message as stored for the admin view.
type Archived struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Subject   string
	Message   string
	Mode      string
	Delivered bool
	Error     string
	CreatedAt time.Time
}

// Archive stores submitted messages.
type Archive interface {
	SaveMessage(ctx context.Context, m Archived) error
}

// Observer counts submissions.
type Observer interface {
	ObserveSubmission(mode, outcome string)
}

// Submission tracks one visitor's relay calls through the FetchState lifecycle.
type Submission struct {
	mu    sync.Mutex
	state fetchstate.State
}

func NewSubmission() *Submission {
	return &Submission{state: fetchstate.New()}
}

// State returns a copy of the current state.
func (s *Submission) State() fetchstate.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Submission) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsLoading() {
		return ErrInFlight
	}
	return s.state.Begin()
}

func (s *Submission) finish(err error, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		var ie *IntegrationError
		msg := err.Error()
		if errors.As(err, &ie) {
			msg = ie.Message()
		}
		_ = s.state.Fail(msg)
		return
	}
	_ = s.state.Succeed(now)
}

// Result is what the visitor sees after a valid submission.
type Result struct {
	Mode         string
	MailtoURI    string
	Notice       string
	DismissAfter time.Duration
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Mode         string
	Recipient    string
	DismissAfter time.Duration
}

// Service validates submissions and delivers them through the configured mode.
type Service struct {
	cfg       ServiceConfig
	validator *Validator
	relay     Relay
	archive   Archive
	observer  Observer
	now       func() time.Time
}

// Option customises a Service.
type Option func(*Service)

func WithArchive(a Archive) Option { return func(s *Service) { s.archive = a } }

func WithObserver(o Observer) Option { return func(s *Service) { s.observer = o } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService wires a Service. relay is required for the smtp and emailjs modes and ignored for mailto.
func NewService(cfg ServiceConfig, v *Validator, relay Relay, opts ...Option) (*Service, error) {
	switch cfg.Mode {
	case ModeMailto:
		relay = nil
	case ModeSMTP, ModeEmailJS:
		if relay == nil {
			return nil, fmt.Errorf("contact mode %s needs a relay", cfg.Mode)
		}
	default:
		return nil, fmt.Errorf("unknown contact mode %q", cfg.Mode)
	}
	if cfg.Recipient == "" {
		return nil, errors.New("contact recipient is empty")
	}
	if v == nil {
		v = NewValidator(nil)
	}

	s := &Service{cfg: cfg, validator: v, relay: relay, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Mode is the configured delivery mode.
func (s *Service) Mode() string { return s.cfg.Mode }

// Recipient is the owner's address.
func (s *Service) Recipient() string { return s.cfg.Recipient }

// CheckEmail is the on-blur check of a single address.
func (s *Service) CheckEmail(ctx context.Context, email string) string {
	return s.validator.CheckEmail(ctx, email)
}

// Submit validates f and delivers it. A *ValidationError means nothing was sent.
// Relay failures come back as *IntegrationError and leave sub in the error state.
func (s *Service) Submit(ctx context.Context, sub *Submission, f Form) (Result, error) {
	const op = "contact/service/Submit"
	lg := log.From(ctx)

	f, err := s.validator.Validate(ctx, f)
	if err != nil {
		s.observe(OutcomeInvalid)
		return Result{}, err
	}

	mail := Compose(s.cfg.Recipient, f)

	if s.relay == nil {
		s.save(ctx, f, false, nil)
		s.observe(OutcomeHandoff)
		lg.Info("contact_handoff", slog.String("op", op), slog.String("mode", s.cfg.Mode))
		return Result{
			Mode:         s.cfg.Mode,
			MailtoURI:    mail.MailtoURI(),
			Notice:       "Email client opened! Please hit Send there.",
			DismissAfter: s.cfg.DismissAfter,
		}, nil
	}

	if sub == nil {
		sub = NewSubmission()
	}
	if err := sub.begin(); err != nil {
		return Result{}, err
	}

	sendErr := s.relay.Send(ctx, mail)
	if sendErr != nil {
		var ie *IntegrationError
		if !errors.As(sendErr, &ie) {
			ie = &IntegrationError{Relay: s.relay.Name(), Err: sendErr}
			sendErr = ie
		}
		ie.Fallback = mail.MailtoURI()
	}
	sub.finish(sendErr, s.now())
	s.save(ctx, f, sendErr == nil, sendErr)

	if sendErr != nil {
		s.observe(OutcomeFailed)
		lg.Warn("contact_send_failed",
			slog.String("op", op),
			slog.String("relay", s.relay.Name()),
			slog.String("err", sendErr.Error()),
		)
		return Result{Mode: s.cfg.Mode, MailtoURI: mail.MailtoURI()}, sendErr
	}

	s.observe(OutcomeSent)
	lg.Info("contact_sent", slog.String("op", op), slog.String("relay", s.relay.Name()))
	return Result{
		Mode:         s.cfg.Mode,
		Notice:       "Thank you for your message! I'll get back to you soon.",
		DismissAfter: s.cfg.DismissAfter,
	}, nil
}

func (s *Service) save(ctx context.Context, f Form, delivered bool, sendErr error) {
	if s.archive == nil {
		return
	}
	m := Archived{
		ID:        uuid.New(),
		Name:      f.Name,
		Email:     f.Email,
		Subject:   f.Subject,
		Message:   f.Message,
		Mode:      s.cfg.Mode,
		Delivered: delivered,
		CreatedAt: s.now().UTC(),
	}
	if sendErr != nil {
		m.Error = sendErr.Error()
	}
	if err := s.archive.SaveMessage(ctx, m); err != nil {
		log.From(ctx).Error("contact_archive_failed",
			slog.String("op", "contact/service/save"),
			slog.String("err", err.Error()),
		)
	}
}

func (s *Service) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveSubmission(s.cfg.Mode, outcome)
	}
}
