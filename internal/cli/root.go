// Package cli defines the cobra command tree for hbnb.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hbnb/internal/config"
	"hbnb/internal/logging"
)

var flagLogLevel string

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hbnb",
		Short:         "Rental listings service",
		Long:          "hbnb manages users, places, amenities and reviews behind a JSON API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override log.level (debug|info|warn|error)")

	root.AddCommand(
		newServeCmd(),
		newAdminCmd(),
		newVersionCmd(),
	)

	return root
}

// loadConfig reads configuration and builds the logger it describes.
func loadConfig() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
