package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "compliance evidence engine",
	Example: `api serve
api migrate
api reindex --tenant <tenant-id> --user <admin-id> --only-empty`,
	// serve is the default when no subcommand is given
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reindexCmd())
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}

// @title						Compliance Evidence Engine API
// @version					1.0
// @BasePath					/
// @securityDefinitions.apikey	TenantHeader
// @in							header
// @name						X-Tenant-ID
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
