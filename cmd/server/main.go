package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxviazov/orgs-directory-service/internal/config"
	"github.com/maxviazov/orgs-directory-service/internal/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "server",
		Short:         "Serve the organizations directory API",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	root.AddCommand(newSeedCommand(&configPath))
	return root
}

// bootstrap loads configuration and builds the process logger.
func bootstrap(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, fmt.Errorf("config loading failed: %w", err)
	}

	if cfg.Logger.ServiceName == "" {
		cfg.Logger.ServiceName = cfg.App.Name
	}
	if cfg.Logger.ServiceVersion == "" {
		cfg.Logger.ServiceVersion = cfg.App.Version
	}
	if cfg.Logger.Env == "" {
		cfg.Logger.Env = loggerEnv(cfg.App.Env)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, zerolog.Logger{}, fmt.Errorf("logger initialization failed: %w", err)
	}
	return cfg, log, nil
}

// loggerEnv maps app environments onto the ones the logger knows; tests log like dev.
func loggerEnv(appEnv string) string {
	switch appEnv {
	case "prod", "staging":
		return appEnv
	default:
		return "dev"
	}
}
