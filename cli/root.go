package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"disasterprep/config"
	"disasterprep/database"
	"disasterprep/logging"
	"disasterprep/repository"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Verbose    bool

	cfg *config.Config
}

// NewRootCommand creates the root command of the disasterprep CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "disasterprep",
		Short: "Disaster preparedness content service",
		Long:  "Serves disaster-preparedness pages from a content store and manages its fixtures.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to config.yaml (default: search ./config, ., ../config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// setup loads configuration and installs the configured logger.
func (o *RootOptions) setup() error {
	if _, err := logging.Init("info", false); err != nil {
		return err
	}
	cfg, err := config.LoadConfig(o.ConfigFile)
	if err != nil {
		return err
	}
	level := cfg.Logging.Level
	if o.Verbose {
		level = "debug"
	}
	if _, err := logging.Init(level, cfg.Logging.Development); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

// openRepository builds the content repository selected by content.backend.
func openRepository(cfg *config.Config) (repository.ContentRepository, error) {
	switch cfg.Content.Backend {
	case "memory":
		zap.L().Named("Main").Info("Using in-memory content repository")
		return repository.NewMemoryContentRepository(), nil
	case "gorm":
		db, err := database.Init()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repository.NewContentRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown content backend %q", cfg.Content.Backend)
	}
}
