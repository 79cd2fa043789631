package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTallies(t *testing.T) {
	t.Parallel()

	require.Equal(t, Tally{Total: 4, Completed: 2, InProgress: 2}, FeaturedTally())
	require.Equal(t, Tally{Total: 6, Completed: 4, InProgress: 2}, DesignTally())
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Completed", Completed.Label())
	require.Equal(t, "In Progress", InProgress.Label())
	require.Equal(t, "Under Construction", UnderConstruction.Label())
	require.Equal(t, "Unknown", Status("paused").Label())
}

func TestOwnerLinks(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://github.com/Tibrahi", Owner.GitHubURL())
	require.Equal(t, "https://github.com/Tibrahi.png", Owner.AvatarURL())
	require.True(t, strings.HasPrefix(Owner.LinkedInURL(), "https://linkedin.com/in/"))
}

func TestShowcaseLinksAreAbsolute(t *testing.T) {
	t.Parallel()

	for _, p := range Featured {
		require.True(t, strings.HasPrefix(p.Link, "https://"), p.Title)
		require.True(t, strings.HasPrefix(p.Source, "https://github.com/"), p.Title)
	}
	for _, d := range Designs {
		require.True(t, strings.HasPrefix(d.EmbedLink, "https://www.figma.com/embed"), d.Title)
	}
}
