package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"GlobusJupyter/internal/logging"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke and delete the stored Globus tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
		if err != nil {
			return err
		}
		defer closer.Close()

		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		revoked, err := a.tokens.Logout(cmd.Context(), a.auth)
		if err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}
		if !revoked {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}
