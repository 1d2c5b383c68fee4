package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/felixgeelhaar/storyreview/internal/infrastructure/config"
	"github.com/felixgeelhaar/storyreview/internal/infrastructure/logging"
	"github.com/felixgeelhaar/storyreview/internal/infrastructure/wiring"
)

// loadConfig reads the config file and the environment, then applies the
// global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath, "", config.NewDefaultEnvBinder())
	if err != nil {
		return config.Config{}, NewCLIError("failed to load configuration", "Run 'storyreview config init' to create storyreview.yaml", err)
	}
	if dataSourceFlag != "" {
		ds, err := config.ParseDataSource(dataSourceFlag)
		if err != nil {
			return config.Config{}, NewCLIError("invalid --data-source", "Use mock or remote", err)
		}
		cfg.DataSource = ds
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	return cfg, nil
}

// loadServices builds the application services for the current
// configuration. Logs go to stderr so stdout stays parseable. The caller
// must Close the result.
func loadServices(ctx context.Context) (*wiring.AppServices, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, NewCLIError("invalid log settings", "Check the log section of storyreview.yaml", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	services, err := wiring.BuildAppServices(ctx, cfg, logger)
	if err != nil {
		return nil, MapError(fmt.Errorf("failed to build services: %w", err))
	}
	return services, nil
}
