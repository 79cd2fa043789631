package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tibrahi/portfolio/internal/contact"
	"github.com/Tibrahi/portfolio/internal/theme"
)

const msgStillSending = "Your previous message is still being sent."

type contactFormView struct {
	Mode    string
	Values  contact.Form
	Errors  map[string]string
	Summary string
}

func newContactFormView(mode string) contactFormView {
	return contactFormView{Mode: mode, Errors: map[string]string{}}
}

type contactSuccessView struct {
	Notice       string
	MailtoURI    string
	DismissAfter time.Duration
}

type contactErrorView struct {
	Message   string
	Fallback  string
	Recipient string
}

func (s *Server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form.html", newContactFormView(s.contact.Mode()))
}

// submitContact answers with a form, success or error fragment. Every outcome is
// a 200 so the fragment is swapped in.
func (s *Server) submitContact(c *gin.Context) {
	view := newContactFormView(s.contact.Mode())

	var f contact.Form
	if err := c.ShouldBind(&f); err != nil {
		view.Summary = "Please fix the highlighted fields."
		c.HTML(http.StatusOK, "contact-form.html", view)
		return
	}
	view.Values = f

	res, err := s.contact.Submit(c.Request.Context(), sessionFrom(c).Submission(), f)
	var (
		ve *contact.ValidationError
		ie *contact.IntegrationError
	)
	switch {
	case err == nil:
		c.HTML(http.StatusOK, "contact-success.html", contactSuccessView{
			Notice:       res.Notice,
			MailtoURI:    res.MailtoURI,
			DismissAfter: res.DismissAfter,
		})
	case errors.As(err, &ve):
		for field, msg := range ve.Fields {
			view.Errors[string(field)] = msg
		}
		view.Summary = ve.Summary()
		c.HTML(http.StatusOK, "contact-form.html", view)
	case errors.Is(err, contact.ErrInFlight):
		view.Summary = msgStillSending
		c.HTML(http.StatusOK, "contact-form.html", view)
	case errors.As(err, &ie):
		c.HTML(http.StatusOK, "contact-error.html", contactErrorView{
			Message:   ie.Message(),
			Fallback:  ie.Fallback,
			Recipient: s.contact.Recipient(),
		})
	default:
		c.HTML(http.StatusOK, "contact-error.html", contactErrorView{
			Message:   (&contact.IntegrationError{}).Message(),
			Fallback:  res.MailtoURI,
			Recipient: s.contact.Recipient(),
		})
	}
}

// checkEmail is the on-blur check of the email field.
func (s *Server) checkEmail(c *gin.Context) {
	msg := s.contact.CheckEmail(c.Request.Context(), c.PostForm("email"))
	c.HTML(http.StatusOK, "email-check.html", gin.H{"Message": msg})
}

// apiContact is the JSON twin of submitContact.
func (s *Server) apiContact(c *gin.Context) {
	var f contact.Form
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	res, err := s.contact.Submit(c.Request.Context(), sessionFrom(c).Submission(), f)
	var (
		ve *contact.ValidationError
		ie *contact.IntegrationError
	)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"mode": res.Mode, "notice": res.Notice, "mailto_uri": res.MailtoURI})
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ve.Summary(), "fields": ve.Fields})
	case errors.Is(err, contact.ErrInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": msgStillSending})
	case errors.As(err, &ie):
		c.JSON(http.StatusBadGateway, gin.H{"error": ie.Message(), "fallback": ie.Fallback})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// toggleTheme flips the persisted preference. HTMX callers get a full refresh,
// everyone else a redirect back to the section they were on.
func (s *Server) toggleTheme(c *gin.Context) {
	next := theme.FromRequest(c.Request).Toggle()
	http.SetCookie(c.Writer, theme.Cookie(next, s.opts.SecureCookies))

	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusOK)
		return
	}
	target := "/"
	if sec := c.PostForm("section"); sec != "" {
		if _, ok := sectionTitle(sec); ok {
			target = "/?section=" + sec
		}
	}
	c.Redirect(http.StatusSeeOther, target)
}
