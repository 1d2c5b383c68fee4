// Package plugin loads tracker plugins and adapts them to domain.Tracker.
package plugin

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	goplugin "github.com/hashicorp/go-plugin"

	domainPlugin "github.com/felixgeelhaar/storyreview/pkg/domain/plugin"
)

var HandshakeConfig = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "STORYREVIEW_PLUGIN",
	MagicCookieValue: "storyreview",
}

// PublisherKey is the name plugins register their publisher under.
const PublisherKey = "publisher"

var PluginMap = map[string]goplugin.Plugin{
	PublisherKey: &domainPlugin.PublisherPlugin{},
}

type Loader struct {
	mu       sync.Mutex
	plugins  map[string]*goplugin.Client
	retryCfg retry.Config
}

func NewLoader() *Loader {
	return &Loader{
		plugins: make(map[string]*goplugin.Client),
		retryCfg: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  100 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Load starts the plugin binary at path and returns its publisher. Starting
// the process is retried; calls on the returned publisher are not.
func (l *Loader) Load(ctx context.Context, path string) (domainPlugin.Publisher, error) {
	absPath, err := checkBinary(path)
	if err != nil {
		return nil, err
	}

	r := retry.New[domainPlugin.Publisher](l.retryCfg)
	return r.Do(ctx, func(ctx context.Context) (domainPlugin.Publisher, error) {
		return l.start(absPath)
	})
}

// LoadTracker validates cfg, loads the plugin and initialises it with the
// configured settings.
func (l *Loader) LoadTracker(ctx context.Context, cfg domainPlugin.Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plugin config: %w", err)
	}
	pub, err := l.Load(ctx, cfg.Path)
	if err != nil {
		return nil, err
	}
	settings := cfg.Settings
	if settings == nil {
		settings = map[string]string{}
	}
	if err := pub.Init(settings); err != nil {
		return nil, fmt.Errorf("init plugin %s: %w", cfg.Path, err)
	}
	return NewTracker(pub), nil
}

func (l *Loader) start(path string) (domainPlugin.Publisher, error) {
	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins:         PluginMap,
		Cmd:             exec.Command(path),
		AllowedProtocols: []goplugin.Protocol{
			goplugin.ProtocolNetRPC,
		},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to create plugin client: %w", err)
	}

	raw, err := rpcClient.Dispense(PublisherKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}
	pub, ok := raw.(domainPlugin.Publisher)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("plugin %s does not implement the publisher interface", path)
	}

	l.mu.Lock()
	if old, exists := l.plugins[path]; exists {
		old.Kill()
	}
	l.plugins[path] = client
	l.mu.Unlock()
	return pub, nil
}

func (l *Loader) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for path, client := range l.plugins {
		client.Kill()
		delete(l.plugins, path)
	}
}

// checkBinary validates the plugin path before execution.
func checkBinary(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid plugin path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("plugin not found: %s", absPath)
		}
		return "", fmt.Errorf("cannot access plugin: %w", err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("plugin path is a directory: %s", absPath)
	}

	// Check executable permission on Unix systems
	if runtime.GOOS != "windows" {
		if info.Mode()&0111 == 0 {
			return "", fmt.Errorf("plugin is not executable: %s", absPath)
		}
	}
	return absPath, nil
}
