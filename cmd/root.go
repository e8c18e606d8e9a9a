package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sccbd/catalog-api/src/config"
	"github.com/sccbd/catalog-api/src/handlers"
	"github.com/sccbd/catalog-api/src/logging"
)

var (
	version = "dev"
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "catalog-api",
	Short: "catalog-api - destinations and products REST API",
	Long:  "REST backend for the SCCBD tourism catalog: accounts, destinations and products.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}

		cfg = config.Load()
		logging.Setup(logging.Config{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
		})
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return nil
	},
	// serve is the default command
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	handlers.Version = version

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createUserCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "catalog-api version %s\n", version)
	},
}
