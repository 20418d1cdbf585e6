package root

import (
	"log/slog"

	"github.com/dinerozz/focus-session-backend/cmd/analyze"
	"github.com/dinerozz/focus-session-backend/cmd/migrate"
	"github.com/dinerozz/focus-session-backend/config"
	"github.com/dinerozz/focus-session-backend/internal/repository"
	"github.com/dinerozz/focus-session-backend/server"
	"github.com/spf13/cobra"
)

func GetRootCmd(config *config.Config, logger *slog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "focus-session-backend",
		Short: "Focus session analytics backend",
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			server.RunServer(config, logger)
		},
	})

	rootCmd.AddCommand(migrate.GetMigrateCmd(repository.MigrationURL(config.DB)))
	rootCmd.AddCommand(analyze.GetAnalyzeCmd(config.Analytics, logger))

	return rootCmd
}
