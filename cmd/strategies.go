package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rollcall/rollcall/engine"
)

var (
	strategiesPluginsPath string
	strategiesAppVersion  string
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the weighting strategies available to pick requests",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStrategies(strategiesPluginsPath, strategiesAppVersion, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Listing strategies failed: %v", err)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the engine version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rollcall engine %s\n", engine.Version)
	},
}

func runStrategies(pluginsPath, appVersion string, out io.Writer) error {
	rc, err := newRunContext(pluginsPath, appVersion)
	if err != nil {
		return err
	}
	return writeJSON(out, rc.engine.Registry().List())
}

func init() {
	strategiesCmd.Flags().StringVar(&strategiesPluginsPath, "plugins", "", "Path to strategy plugin YAML file")
	strategiesCmd.Flags().StringVar(&strategiesAppVersion, "app-version", engine.Version, "App version used to gate plugins")

	rootCmd.AddCommand(strategiesCmd, versionCmd)
}
