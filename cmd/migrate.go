package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sccbd/catalog-api/src/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ran, err := database.Migrate(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if ran {
			log.Info().Msg("migrations applied")
		} else {
			log.Info().Msg("schema already up to date")
		}
		return nil
	},
}
