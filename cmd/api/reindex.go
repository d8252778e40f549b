package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"complyhub/internal/model"
	"complyhub/internal/service"
)

func reindexCmd() *cobra.Command {
	var tenantID, userID string
	var opts service.ReindexOptions

	command := &cobra.Command{
		Use:   "reindex",
		Short: "re-extract text and re-link documents for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := bootstrap(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.close()

			caller := model.Caller{TenantID: tenantID, UserID: userID, Role: model.RoleAdmin}
			summary, err := a.reindex.ReindexTenant(cmd.Context(), caller, opts)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return err
			}
			if err := summary.Err(); err != nil {
				return fmt.Errorf("%d documents failed: %w", len(summary.Errors), err)
			}
			return nil
		},
	}

	command.Flags().StringVar(&tenantID, "tenant", "", "tenant id")
	command.Flags().StringVar(&userID, "user", "", "admin user id recorded as the caller")
	command.Flags().BoolVar(&opts.OnlyEmpty, "only-empty", false, "only documents without extracted text")
	command.Flags().BoolVar(&opts.Force, "force", false, "extract again even when text exists")
	command.Flags().StringSliceVar(&opts.DocumentTypes, "types", nil, "document type codes to include")
	command.Flags().BoolVar(&opts.SyncAfter, "sync", false, "push evidence to the audit system afterwards")
	_ = command.MarkFlagRequired("tenant")
	_ = command.MarkFlagRequired("user")
	return command
}
