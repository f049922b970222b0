package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"GlobusJupyter/internal/core/scopes"
)

var scopesCollection string

var scopesCmd = &cobra.Command{
	Use:   "scopes",
	Short: "Print the scopes a login would request",
	Long: `Print the scopes a login would request with the current configuration.

Examples:
  globus-jupyterlab scopes
  globus-jupyterlab scopes --collection <collection-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		policy := scopes.NewPolicy(cfg.Scopes, cfg.TransferSubmissionScope)

		var requested []string
		if scopesCollection != "" {
			d, err := policy.Derive(scopes.RequireDataAccess, scopesCollection)
			if err != nil {
				return err
			}
			requested = d.Scopes
		} else {
			requested, err = policy.Default()
			if err != nil {
				return err
			}
		}
		for _, s := range requested {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

func init() {
	scopesCmd.Flags().StringVar(&scopesCollection, "collection", "", "collection id requiring data_access consent")
}
