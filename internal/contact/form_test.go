package contact

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeMX struct {
	answers map[string]bool
	err     error
	calls   []string
}

func (f *fakeMX) HasMX(_ context.Context, domain string) (bool, error) {
	f.calls = append(f.calls, domain)
	if f.err != nil {
		return false, f.err
	}
	return f.answers[domain], nil
}

func validForm() Form {
	return Form{
		Name:    "Ada Lovelace",
		Email:   "ada@gmail.com",
		Subject: "Hello",
		Message: "I would like to talk about a project.",
	}
}

func TestValidate_OnlyMessageFlagged(t *testing.T) {
	t.Parallel()

	f := validForm()
	f.Message = ""

	_, err := NewValidator(nil).Validate(context.Background(), f)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	require.True(t, ve.Has(FieldMessage))
	require.Equal(t, msgMessageTooShort, ve.Summary())
}

func TestValidate_Fields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Form)
		want   map[Field]string
	}{
		{"valid", func(*Form) {}, nil},
		{"blank name", func(f *Form) { f.Name = "   " }, map[Field]string{FieldName: msgNameRequired}},
		{"missing email", func(f *Form) { f.Email = "" }, map[Field]string{FieldEmail: msgEmailRequired}},
		{"bad email", func(f *Form) { f.Email = "ada@gmail" }, map[Field]string{FieldEmail: msgEmailInvalid}},
		{"email with space", func(f *Form) { f.Email = "a da@gmail.com" }, map[Field]string{FieldEmail: msgEmailInvalid}},
		{"disposable", func(f *Form) { f.Email = "x@Mailinator.com" }, map[Field]string{FieldEmail: msgEmailDisposable}},
		{"blank subject", func(f *Form) { f.Subject = "\t" }, map[Field]string{FieldSubject: msgSubjectRequired}},
		{"short message after trim", func(f *Form) { f.Message = "  short    " }, map[Field]string{FieldMessage: msgMessageTooShort}},
		{"exactly ten runes", func(f *Form) { f.Message = "ééééééééé!" }, nil},
		{"everything empty", func(f *Form) { *f = Form{} }, map[Field]string{
			FieldName:    msgNameRequired,
			FieldEmail:   msgEmailRequired,
			FieldSubject: msgSubjectRequired,
			FieldMessage: msgMessageTooShort,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			_, err := NewValidator(nil).Validate(context.Background(), f)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.want, ve.Fields)
		})
	}
}

func TestValidate_TrimsFields(t *testing.T) {
	t.Parallel()

	f := validForm()
	f.Name = "  Ada  "
	got, err := NewValidator(nil).Validate(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, "Ada", got.Name)
}

func TestValidationError_SummaryForSeveralFields(t *testing.T) {
	t.Parallel()

	ve := &ValidationError{Fields: map[Field]string{FieldName: msgNameRequired, FieldEmail: msgEmailInvalid}}
	require.Equal(t, "Please fix the highlighted fields.", ve.Summary())
	require.Equal(t, "contact: invalid email, name", ve.Error())
}

func TestCheckEmail_MX(t *testing.T) {
	t.Parallel()

	mx := &fakeMX{answers: map[string]bool{"company.io": true}}
	v := NewValidator(mx)
	ctx := context.Background()

	require.Empty(t, v.CheckEmail(ctx, "me@company.io"))
	require.Equal(t, msgEmailNoMX, v.CheckEmail(ctx, "me@nomail.example"))
	require.Empty(t, v.CheckEmail(ctx, "me@gmail.com"), "familiar domains skip the lookup")
	require.Equal(t, msgEmailInvalid, v.CheckEmail(ctx, "not-an-email"))

	require.Equal(t, []string{"company.io", "nomail.example"}, mx.calls)
}

func TestCheckEmail_ResolverOutageIsNotAFailure(t *testing.T) {
	t.Parallel()

	v := NewValidator(&fakeMX{err: errors.New("dns down")})
	require.Empty(t, v.CheckEmail(context.Background(), "me@company.io"))
}

func TestDomain(t *testing.T) {
	t.Parallel()

	require.Equal(t, "example.com", Domain("A@Example.COM"))
	require.Equal(t, "example.com", Domain("a@b@example.com."))
	require.Empty(t, Domain("nobody"))
}

func TestCompose_BodyAndMailto(t *testing.T) {
	t.Parallel()

	m := Compose("owner@example.com", Form{
		Name:    "Ada",
		Email:   "ada@gmail.com",
		Subject: "Hi & bye",
		Message: "Line one\nLine two",
	})

	require.Equal(t, "Name: Ada\nEmail: ada@gmail.com\n\nMessage:\nLine one\nLine two\n\n-------------------------\nSent via Portfolio Contact Form", m.Body)

	uri := m.MailtoURI()
	require.True(t, strings.HasPrefix(uri, "mailto:owner@example.com?subject=Hi%20%26%20bye&body="))
	require.NotContains(t, uri, "+")
	require.Contains(t, uri, "Line%20one%0ALine%20two")
}
