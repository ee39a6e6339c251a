package commands

import (
	"fmt"
	"realty/config"
	"realty/helper"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewMigrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	for _, action := range []struct {
		name  string
		short string
	}{
		{name: helper.ActionUp, short: "Apply every pending migration"},
		{name: helper.ActionDown, short: "Roll back the last migration"},
		{name: helper.ActionStepUp, short: "Apply the next pending migration"},
		{name: helper.ActionDrop, short: "Roll back every migration"},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   action.name,
			Short: action.short,
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return helper.Runner(cfg, action.name)
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, dirty, err := helper.Version(cfg)
			if err != nil {
				return err
			}

			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Schema version")
			fmt.Fprintf(cmd.OutOrStdout(), "%d dirty=%t\n", version, dirty)

			return nil
		},
	})

	return cmd
}
