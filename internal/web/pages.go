package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tibrahi/portfolio/internal/catalog"
	"github.com/Tibrahi/portfolio/internal/content"
	"github.com/Tibrahi/portfolio/internal/pkg/log"
	"github.com/Tibrahi/portfolio/internal/theme"
)

// Section names, in navigation order.
const (
	SectionAbout      = "about"
	SectionExperience = "experience"
	SectionSkills     = "skills"
	SectionProjects   = "projects"
	SectionDesign     = "design"
	SectionDashboard  = "dashboard"
	SectionContact    = "contact"
)

// SectionLink is one navigation entry.
type SectionLink struct {
	Name  string
	Title string
}

var sections = []SectionLink{
	{Name: SectionAbout, Title: "About"},
	{Name: SectionExperience, Title: "Experience"},
	{Name: SectionSkills, Title: "Skills"},
	{Name: SectionProjects, Title: "Projects"},
	{Name: SectionDesign, Title: "Design"},
	{Name: SectionDashboard, Title: "Dashboard"},
	{Name: SectionContact, Title: "Contact"},
}

func sectionTitle(name string) (string, bool) {
	for _, s := range sections {
		if s.Name == name {
			return s.Title, true
		}
	}
	return "", false
}

// Page is the root template data.
type Page struct {
	Title    string
	Section  string
	Sections []SectionLink
	Theme    theme.Preference
	Owner    content.Profile
	Data     any
}

func (s *Server) page(c *gin.Context, section string, data any) Page {
	title := content.Owner.Name
	if t, ok := sectionTitle(section); ok {
		title = t + " | " + content.Owner.Name
	}
	return Page{
		Title:    title,
		Section:  section,
		Sections: sections,
		Theme:    theme.FromRequest(c.Request),
		Owner:    content.Owner,
		Data:     data,
	}
}

type aboutData struct {
	Greeting     string
	Tagline      string
	AboutMe      string
	Facts        []content.Card
	Achievements []content.Card
}

type experienceData struct {
	Jobs []content.Job
}

type skillsData struct {
	Categories []content.SkillCategory
}

type projectsData struct {
	Intro       string
	Featured    []content.Showcase
	Tally       content.Tally
	Deployments catalog.Snapshot
	Projects    catalog.Snapshot
}

type designData struct {
	Intro   string
	Designs []content.Design
	Tally   content.Tally
}

type dashboardData struct {
	Repos       catalog.Snapshot
	PollSeconds int
}

type contactData struct {
	Intro string
	Form  contactFormView
}

// index renders the full page with the requested section inline.
func (s *Server) index(c *gin.Context) {
	name := c.DefaultQuery("section", SectionAbout)
	if _, ok := sectionTitle(name); !ok {
		name = SectionAbout
	}
	c.HTML(http.StatusOK, "index.html", s.page(c, name, s.sectionData(c, name)))
}

// section renders one section as a fragment.
func (s *Server) section(c *gin.Context) {
	name := c.Param("name")
	if _, ok := sectionTitle(name); !ok {
		c.HTML(http.StatusNotFound, "not-found.html", s.page(c, "", nil))
		return
	}
	c.HTML(http.StatusOK, "section.html", s.page(c, name, s.sectionData(c, name)))
}

func (s *Server) sectionData(c *gin.Context, name string) any {
	switch name {
	case SectionExperience:
		return experienceData{Jobs: content.Experience}
	case SectionSkills:
		return skillsData{Categories: content.Skills}
	case SectionProjects:
		return projectsData{
			Intro:       content.ProjectsIntro,
			Featured:    content.Featured,
			Tally:       content.FeaturedTally(),
			Deployments: s.loadView(c, ViewDeployments),
			Projects:    s.loadView(c, ViewProjects),
		}
	case SectionDesign:
		return designData{Intro: content.DesignIntro, Designs: content.Designs, Tally: content.DesignTally()}
	case SectionDashboard:
		return dashboardData{
			Repos:       s.loadView(c, ViewDashboard),
			PollSeconds: int(s.catalog.MaxAge(ViewDashboard).Seconds()),
		}
	case SectionContact:
		return contactData{Intro: content.ContactIntro, Form: newContactFormView(s.contact.Mode())}
	default:
		return aboutData{
			Greeting:     content.Greeting,
			Tagline:      content.Tagline,
			AboutMe:      content.AboutMe,
			Facts:        content.Facts,
			Achievements: content.Achievements,
		}
	}
}

// loadView mounts the session's view, refreshes it when stale and returns what
// to render. Fetch failures are already part of the snapshot state.
func (s *Server) loadView(c *gin.Context, name string) catalog.Snapshot {
	v, err := sessionFrom(c).View(name)
	if err != nil {
		log.From(c.Request.Context()).Error("view_mount_failed",
			slog.String("op", "web/pages/loadView"),
			slog.String("view", name),
			slog.String("err", err.Error()),
		)
		return catalog.Snapshot{Name: name}
	}
	logFetchErr(c.Request.Context(), name, v.RefreshIfStale(c.Request.Context(), s.catalog.MaxAge(name)))
	return v.Snapshot()
}

// logFetchErr logs what a view operation returned. Superseded and refused
// operations are routine.
func logFetchErr(ctx context.Context, view string, err error) {
	if err == nil {
		return
	}
	lg := log.From(ctx)
	attrs := []any{slog.String("view", view), slog.String("err", err.Error())}
	switch {
	case errors.Is(err, catalog.ErrStale),
		errors.Is(err, catalog.ErrBusy),
		errors.Is(err, catalog.ErrNoMorePages),
		errors.Is(err, catalog.ErrNotLoaded):
		lg.Debug("view_op_skipped", attrs...)
	default:
		lg.Warn("repos_fetch_failed", attrs...)
	}
}
