package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/restaurant-service/pkg/config"
	"github.com/platinummonkey/restaurant-service/pkg/observability"
)

// Version is stamped at build time with -ldflags "-X .../pkg/cli.Version=..."
var Version = "dev"

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "restaurant-service",
		Short:         "Multi-tenant restaurant, menu and item API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				return os.Setenv(config.EnvPrefix+"CONFIG_FILE", configFile)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and builds the process logger
func loadConfig(out io.Writer) (*config.Config, *observability.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := observability.NewLogger(cfg.Observability.Level(), out).
		WithField("service", cfg.Observability.OTelServiceName)
	return cfg, logger, nil
}
