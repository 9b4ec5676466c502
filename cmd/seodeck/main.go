// seodeck is the SEO agency operations dashboard server and automation
// trigger CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "seodeck",
		Short: "SeoDeck agency operations dashboard",
		Long: "SeoDeck serves the agency operations API and runs the automation\n" +
			"engine: alert rule evaluation and recurring task materialization.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newRunCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
