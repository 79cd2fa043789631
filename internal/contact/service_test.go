package contact

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tibrahi/portfolio/internal/fetchstate"
)

type fakeRelay struct {
	mu    sync.Mutex
	err   error
	gate  chan struct{}
	mails []Mail
}

func (f *fakeRelay) Name() string { return "fake" }

func (f *fakeRelay) Send(ctx context.Context, m Mail) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mails = append(f.mails, m)
	return f.err
}

type memArchive struct {
	mu   sync.Mutex
	msgs []Archived
	err  error
}

func (a *memArchive) SaveMessage(_ context.Context, m Archived) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.msgs = append(a.msgs, m)
	return a.err
}

type countingObserver struct {
	mu  sync.Mutex
	got []string
}

func (o *countingObserver) ObserveSubmission(mode, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.got = append(o.got, mode+"/"+outcome)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, mode string, relay Relay, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	s, err := NewService(ServiceConfig{Mode: mode, Recipient: "owner@example.com", DismissAfter: 3 * time.Second}, NewValidator(nil), relay, opts...)
	require.NoError(t, err)
	return s
}

func TestNewService_Config(t *testing.T) {
	t.Parallel()

	_, err := NewService(ServiceConfig{Mode: ModeSMTP, Recipient: "a@b.c"}, nil, nil)
	require.Error(t, err)

	_, err = NewService(ServiceConfig{Mode: "fax", Recipient: "a@b.c"}, nil, nil)
	require.Error(t, err)

	_, err = NewService(ServiceConfig{Mode: ModeMailto}, nil, nil)
	require.Error(t, err)

	s, err := NewService(ServiceConfig{Mode: ModeMailto, Recipient: "a@b.c"}, nil, &fakeRelay{})
	require.NoError(t, err)
	require.Equal(t, ModeMailto, s.Mode())
}

func TestSubmit_MailtoHandoff(t *testing.T) {
	t.Parallel()

	archive := &memArchive{}
	obs := &countingObserver{}
	s := newService(t, ModeMailto, nil, WithArchive(archive), WithObserver(obs))
	sub := NewSubmission()

	res, err := s.Submit(context.Background(), sub, validForm())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.MailtoURI, "mailto:owner@example.com?subject=Hello&body="))
	require.Equal(t, 3*time.Second, res.DismissAfter)
	require.NotEmpty(t, res.Notice)

	require.Equal(t, fetchstate.Idle, sub.State().Status, "mailto never touches the network")
	require.Len(t, archive.msgs, 1)
	require.Equal(t, ModeMailto, archive.msgs[0].Mode)
	require.False(t, archive.msgs[0].Delivered)
	require.Equal(t, []string{"mailto/handoff"}, obs.got)
}

func TestSubmit_InvalidSendsNothing(t *testing.T) {
	t.Parallel()

	relay := &fakeRelay{}
	archive := &memArchive{}
	obs := &countingObserver{}
	s := newService(t, ModeEmailJS, relay, WithArchive(archive), WithObserver(obs))
	sub := NewSubmission()

	f := validForm()
	f.Message = ""
	_, err := s.Submit(context.Background(), sub, f)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Empty(t, relay.mails)
	require.Empty(t, archive.msgs)
	require.Equal(t, fetchstate.Idle, sub.State().Status)
	require.Equal(t, []string{"emailjs/invalid"}, obs.got)
}

func TestSubmit_RelaySuccess(t *testing.T) {
	t.Parallel()

	relay := &fakeRelay{}
	archive := &memArchive{}
	s := newService(t, ModeEmailJS, relay, WithArchive(archive))
	sub := NewSubmission()

	res, err := s.Submit(context.Background(), sub, validForm())
	require.NoError(t, err)
	require.Empty(t, res.MailtoURI)
	require.Contains(t, res.Notice, "Thank you")

	st := sub.State()
	require.Equal(t, fetchstate.Success, st.Status)
	require.Equal(t, fixedNow, st.LastUpdated)

	require.Len(t, relay.mails, 1)
	require.Equal(t, "owner@example.com", relay.mails[0].To)
	require.Len(t, archive.msgs, 1)
	require.True(t, archive.msgs[0].Delivered)
	require.Equal(t, fixedNow, archive.msgs[0].CreatedAt)
}

func TestSubmit_RelayFailureThenRetry(t *testing.T) {
	t.Parallel()

	relay := &fakeRelay{err: errors.New("boom")}
	archive := &memArchive{}
	s := newService(t, ModeSMTP, relay, WithArchive(archive))
	sub := NewSubmission()

	res, err := s.Submit(context.Background(), sub, validForm())
	var ie *IntegrationError
	require.ErrorAs(t, err, &ie)
	require.Equal(t, "fake", ie.Relay)
	require.Equal(t, res.MailtoURI, ie.Fallback)
	require.True(t, strings.HasPrefix(ie.Fallback, "mailto:owner@example.com"))

	st := sub.State()
	require.Equal(t, fetchstate.Error, st.Status)
	require.Equal(t, ie.Message(), st.Message)
	require.False(t, archive.msgs[0].Delivered)
	require.Contains(t, archive.msgs[0].Error, "boom")

	relay.err = nil
	_, err = s.Submit(context.Background(), sub, validForm())
	require.NoError(t, err)
	require.Equal(t, fetchstate.Success, sub.State().Status)
}

func TestSubmit_RejectsDoubleSubmit(t *testing.T) {
	t.Parallel()

	relay := &fakeRelay{gate: make(chan struct{})}
	s := newService(t, ModeEmailJS, relay)
	sub := NewSubmission()

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), sub, validForm())
		done <- err
	}()

	require.Eventually(t, func() bool { return sub.State().IsLoading() }, time.Second, 5*time.Millisecond)

	_, err := s.Submit(context.Background(), sub, validForm())
	require.ErrorIs(t, err, ErrInFlight)

	close(relay.gate)
	require.NoError(t, <-done)
}

func TestSubmit_ArchiveFailureDoesNotFailSubmission(t *testing.T) {
	t.Parallel()

	s := newService(t, ModeEmailJS, &fakeRelay{}, WithArchive(&memArchive{err: errors.New("disk full")}))
	_, err := s.Submit(context.Background(), NewSubmission(), validForm())
	require.NoError(t, err)
}
