package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tibrahi/portfolio/internal/catalog"
)

type viewOp int

const (
	opRefresh viewOp = iota
	opMore
	opRetry
)

// apply runs op against v. "more" fetches the next page in paged mode and
// reveals the next step in reveal mode.
func apply(ctx context.Context, v *catalog.View, op viewOp) error {
	switch op {
	case opMore:
		if v.Config().Mode == catalog.ModeReveal {
			_, err := v.ShowMore()
			return err
		}
		return v.LoadMore(ctx)
	case opRetry:
		return v.Retry(ctx)
	default:
		return v.Refresh(ctx)
	}
}

func (s *Server) mount(c *gin.Context) (*catalog.View, bool) {
	v, err := sessionFrom(c).View(c.Param("view"))
	if err != nil {
		return nil, false
	}
	return v, true
}

// viewFragment renders a repository list, refreshing it when stale.
func (s *Server) viewFragment(c *gin.Context) {
	v, ok := s.mount(c)
	if !ok {
		c.HTML(http.StatusNotFound, "not-found.html", s.page(c, "", nil))
		return
	}
	name := v.Config().Name
	logFetchErr(c.Request.Context(), name, v.RefreshIfStale(c.Request.Context(), s.catalog.MaxAge(name)))
	c.HTML(http.StatusOK, "repo-list.html", v.Snapshot())
}

// viewAction renders the list after op. Failures show up inside the fragment,
// so the status is 200 for every known view.
func (s *Server) viewAction(op viewOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := s.mount(c)
		if !ok {
			c.HTML(http.StatusNotFound, "not-found.html", s.page(c, "", nil))
			return
		}
		logFetchErr(c.Request.Context(), v.Config().Name, apply(c.Request.Context(), v, op))
		c.HTML(http.StatusOK, "repo-list.html", v.Snapshot())
	}
}

type repoDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	Topics      []string  `json:"topics,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Watchers    int       `json:"watchers"`
	Homepage    string    `json:"homepage,omitempty"`
	SourceURL   string    `json:"source_url"`
	Archived    bool      `json:"archived"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type languageDTO struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

type statsDTO struct {
	Repositories int           `json:"repositories"`
	Stars        int           `json:"stars"`
	Forks        int           `json:"forks"`
	Languages    []languageDTO `json:"languages"`
}

type viewDTO struct {
	Name         string     `json:"name"`
	Mode         string     `json:"mode"`
	Status       string     `json:"status"`
	Message      string     `json:"message,omitempty"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
	Page         int        `json:"page"`
	PageSize     int        `json:"page_size"`
	HasMore      bool       `json:"has_more"`
	CanLoadMore  bool       `json:"can_load_more"`
	Total        int        `json:"total"`
	Repositories []repoDTO  `json:"repositories"`
	Stats        statsDTO   `json:"stats"`
}

func toViewDTO(sn catalog.Snapshot) viewDTO {
	out := viewDTO{
		Name:         sn.Name,
		Mode:         string(sn.Mode),
		Status:       string(sn.State.Status),
		Message:      sn.State.Message,
		Page:         sn.Cursor.Page,
		PageSize:     sn.Cursor.Size,
		HasMore:      sn.Cursor.HasMore,
		CanLoadMore:  sn.CanLoadMore,
		Total:        sn.Total,
		Repositories: make([]repoDTO, 0, len(sn.Records)),
		Stats: statsDTO{
			Repositories: sn.Stats.Repositories,
			Stars:        sn.Stats.Stars,
			Forks:        sn.Stats.Forks,
			Languages:    make([]languageDTO, 0, len(sn.Stats.Languages)),
		},
	}
	if !sn.State.LastUpdated.IsZero() {
		t := sn.State.LastUpdated
		out.LastUpdated = &t
	}
	for _, r := range sn.Records {
		out.Repositories = append(out.Repositories, repoDTO{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Language:    r.Language,
			Topics:      r.Topics,
			Stars:       r.Stars,
			Forks:       r.Forks,
			Watchers:    r.Watchers,
			Homepage:    r.Homepage,
			SourceURL:   r.SourceURL,
			Archived:    r.Archived,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	for _, l := range sn.Stats.Languages {
		out.Stats.Languages = append(out.Stats.Languages, languageDTO{Language: l.Language, Count: l.Count})
	}
	return out
}

// statusFor maps a view operation error to an HTTP status for the JSON API.
func statusFor(err error) int {
	var te *catalog.TransportError
	switch {
	case err == nil, errors.Is(err, catalog.ErrStale):
		return http.StatusOK
	case errors.Is(err, catalog.ErrBusy),
		errors.Is(err, catalog.ErrNoMorePages),
		errors.Is(err, catalog.ErrNotLoaded),
		errors.Is(err, catalog.ErrWrongMode):
		return http.StatusConflict
	case errors.As(err, &te):
		if te.Timeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) apiView(c *gin.Context) {
	v, ok := s.mount(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown view"})
		return
	}
	name := v.Config().Name
	err := v.RefreshIfStale(c.Request.Context(), s.catalog.MaxAge(name))
	logFetchErr(c.Request.Context(), name, err)
	s.writeView(c, v, err)
}

func (s *Server) apiViewAction(op viewOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := s.mount(c)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown view"})
			return
		}
		err := apply(c.Request.Context(), v, op)
		logFetchErr(c.Request.Context(), v.Config().Name, err)
		s.writeView(c, v, err)
	}
}

func (s *Server) writeView(c *gin.Context, v *catalog.View, err error) {
	code := statusFor(err)
	if code == http.StatusOK {
		c.JSON(code, toViewDTO(v.Snapshot()))
		return
	}
	msg := err.Error()
	var te *catalog.TransportError
	if errors.As(err, &te) {
		msg = te.Message()
	}
	c.JSON(code, gin.H{"error": msg, "view": toViewDTO(v.Snapshot())})
}
