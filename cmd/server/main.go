package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"GlobusJupyter/internal/config"
)

var (
	cfgFile string
	v       = config.New()
)

var rootCmd = &cobra.Command{
	Use:           "globus-jupyterlab",
	Short:         "Globus JupyterLab server extension",
	Long:          `globus-jupyterlab proxies Globus Transfer for JupyterLab and turns Globus auth errors into login directives.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(scopesCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(v, cfgFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
