package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-plugin"

	"github.com/felixgeelhaar/storyreview/internal/infrastructure/tracker"
	"github.com/felixgeelhaar/storyreview/pkg/domain"
	domainPlugin "github.com/felixgeelhaar/storyreview/pkg/domain/plugin"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	infraPlugin "github.com/felixgeelhaar/storyreview/pkg/plugin"
)

const requestTimeout = 30 * time.Second

// GitHubPublisher opens a GitHub issue per published story.
type GitHubPublisher struct {
	token  string
	owner  string
	repo   string
	labels []string

	tracker domain.Tracker
}

func (p *GitHubPublisher) Init(config map[string]string) error {
	cfg := domainPlugin.Config{Settings: config}
	p.token = cfg.Setting("token", os.Getenv("GITHUB_TOKEN"))

	// Fallback to env vars if not provided in config
	repo := cfg.Setting("repo", os.Getenv("GITHUB_REPO"))
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		owner, name = cfg.Setting("owner", ""), repo
	}
	p.owner, p.repo = owner, name
	if p.owner == "" || p.repo == "" {
		return errors.New("repository is required as owner/repo (setting repo or GITHUB_REPO)")
	}
	if p.token == "" {
		return errors.New("GitHub token is required (setting token or GITHUB_TOKEN)")
	}

	p.labels = nil
	for _, l := range strings.Split(cfg.Setting("labels", ""), ",") {
		if l = strings.TrimSpace(l); l != "" {
			p.labels = append(p.labels, l)
		}
	}

	p.tracker = tracker.WithTimeout(tracker.NewGitHubFromToken(p.token, p.owner, p.repo, p.labels), requestTimeout)
	return nil
}

func (p *GitHubPublisher) CreateWorkItem(s story.Story) (story.WorkItem, error) {
	if p.tracker == nil {
		return story.WorkItem{}, errors.New("publisher not initialised")
	}
	log.Printf("GitHub publisher: creating issue for story %s in %s/%s", s.ID, p.owner, p.repo)
	item, err := p.tracker.CreateWorkItem(context.Background(), s)
	if err != nil {
		return story.WorkItem{}, fmt.Errorf("github: %w", err)
	}
	return item, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: infraPlugin.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			infraPlugin.PublisherKey: &domainPlugin.PublisherPlugin{Impl: &GitHubPublisher{}},
		},
	})
}
