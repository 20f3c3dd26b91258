package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"disasterprep/models"
	"disasterprep/seed"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	File string
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load content fixtures into the store",
		Long: `Load a YAML fixture file into the content store configured by
database.dsn. Records whose id already exists are skipped.

Example:
  disasterprep seed --file config/content.yaml
  disasterprep seed --config ./config/config.yaml --file ./fixtures.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "path to the YAML fixture file (default: content.seed_file)")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	cfg := opts.cfg
	if cfg.Content.Backend == "memory" {
		return errors.New("content.backend is \"memory\"; seeding it from the CLI would be lost on exit")
	}
	file := opts.File
	if file == "" {
		file = cfg.Content.SeedFile
	}
	if file == "" {
		return errors.New("no fixture file: pass --file or set content.seed_file")
	}

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	res, err := seed.LoadFile(cmd.Context(), repo, file)
	if err != nil {
		return err
	}

	for _, c := range models.Collections() {
		if res.Created[c]+res.Skipped[c] == 0 {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-24s created %d, skipped %d\n", c, res.Created[c], res.Skipped[c])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records from %s\n", res.Total(), file)
	return nil
}
