package web

import (
	"errors"
	"fmt"
	"time"

	"github.com/Tibrahi/portfolio/internal/catalog"
)

// View names. They appear in URLs and metric labels.
const (
	ViewDashboard   = "dashboard"
	ViewProjects    = "projects"
	ViewDeployments = "deployments"
)

// ErrUnknownView is returned for a view name that is not registered.
var ErrUnknownView = errors.New("web: unknown view")

// ViewSizes sizes the registered views.
type ViewSizes struct {
	DashboardStep       int
	ProjectsPageSize    int
	DeploymentsPageSize int
	// DashboardMaxAge is how old the dashboard may get before a render refreshes it.
	DashboardMaxAge time.Duration
}

// Catalog builds the repository views a session mounts.
type Catalog struct {
	configs  map[string]catalog.ViewConfig
	maxAge   map[string]time.Duration
	fetcher  catalog.Fetcher
	observer catalog.Observer
}

// NewCatalog registers the dashboard, projects and deployments views for owner.
func NewCatalog(owner string, sizes ViewSizes, f catalog.Fetcher, o catalog.Observer) (*Catalog, error) {
	configs := map[string]catalog.ViewConfig{
		ViewDashboard: {
			Name:        ViewDashboard,
			Owner:       owner,
			PageSize:    catalog.MaxPageSize,
			Mode:        catalog.ModeReveal,
			Step:        sizes.DashboardStep,
			Rules:       catalog.OriginalWork,
			SortByStars: true,
		},
		ViewProjects: {
			Name:     ViewProjects,
			Owner:    owner,
			PageSize: sizes.ProjectsPageSize,
			Mode:     catalog.ModePaged,
			Rules:    catalog.ActiveWork,
		},
		ViewDeployments: {
			Name:     ViewDeployments,
			Owner:    owner,
			PageSize: sizes.DeploymentsPageSize,
			Mode:     catalog.ModePaged,
			Rules:    catalog.LiveDeployments,
		},
	}
	for name, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("view %s: %w", name, err)
		}
	}
	if f == nil {
		return nil, errors.New("nil fetcher")
	}

	return &Catalog{
		configs:  configs,
		maxAge:   map[string]time.Duration{ViewDashboard: sizes.DashboardMaxAge},
		fetcher:  f,
		observer: o,
	}, nil
}

// Mount creates a fresh, idle view.
func (c *Catalog) Mount(name string) (*catalog.View, error) {
	cfg, ok := c.configs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	var opts []catalog.ViewOption
	if c.observer != nil {
		opts = append(opts, catalog.WithObserver(c.observer))
	}
	return catalog.NewView(cfg, c.fetcher, opts...)
}

// MaxAge is the staleness bound of a view; 0 means it only loads once.
func (c *Catalog) MaxAge(name string) time.Duration {
	return c.maxAge[name]
}
