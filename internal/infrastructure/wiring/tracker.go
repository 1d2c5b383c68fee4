package wiring

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/storyreview/internal/infrastructure/config"
	"github.com/felixgeelhaar/storyreview/internal/infrastructure/tracker"
	"github.com/felixgeelhaar/storyreview/pkg/domain"
	"github.com/felixgeelhaar/storyreview/pkg/plugin"
)

// LoadTracker builds the work-item tracker named by cfg.Kind. Plugin trackers
// are started through loader, which the caller must clean up.
func LoadTracker(ctx context.Context, cfg config.Tracker, loader *plugin.Loader) (domain.Tracker, error) {
	switch cfg.Kind {
	case "", config.TrackerPlaceholder:
		start := cfg.Placeholder.Start
		if start == 0 {
			start = tracker.DefaultPlaceholderStart
		}
		return tracker.NewPlaceholder(cfg.Placeholder.BaseURL, cfg.Placeholder.Prefix, domain.NewSequence(start)), nil

	case config.TrackerGitHub:
		gh := tracker.NewGitHubFromToken(cfg.GitHub.Token, cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Labels)
		return tracker.WithTimeout(gh, cfg.Timeout()), nil

	case config.TrackerPlugin:
		if loader == nil {
			return nil, fmt.Errorf("plugin tracker requires a plugin loader")
		}
		t, err := loader.LoadTracker(ctx, cfg.Plugin)
		if err != nil {
			return nil, fmt.Errorf("load tracker plugin: %w", err)
		}
		return tracker.WithTimeout(t, cfg.Timeout()), nil
	}
	return nil, fmt.Errorf("unknown tracker kind %q", cfg.Kind)
}
