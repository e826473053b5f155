package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rollcall/rollcall/engine"
	"github.com/rollcall/rollcall/engine/strategy"
)

var (
	pluginFilePath   string
	pluginAppVersion string
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Sign and verify strategy plugin files",
}

var pluginsSignCmd = &cobra.Command{
	Use:   "sign",
	Short: "Print the plugin file with signatures filled in",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPluginsSign(pluginFilePath, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Sign failed: %v", err)
		}
	},
}

var pluginsVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Load a plugin file against an app version and print the outcome",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runPluginsVerify(pluginFilePath, pluginAppVersion, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Verify failed: %v", err)
		}
	},
}

func runPluginsSign(path string, out io.Writer) error {
	configs, err := loadPluginFile(path)
	if err != nil {
		return err
	}
	signed := make([]strategy.PluginConfig, len(configs))
	for i, c := range configs {
		signed[i] = strategy.Sign(c)
	}
	return writeYAML(out, PluginFile{Plugins: signed})
}

// runPluginsVerify prints the load result and fails when any plugin was rejected.
func runPluginsVerify(path, appVersion string, out io.Writer) error {
	configs, err := loadPluginFile(path)
	if err != nil {
		return err
	}
	res := strategy.NewRegistry().LoadPlugins(configs, appVersion)
	if err := writeJSON(out, res); err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%d of %d plugins rejected", len(res.Errors), len(configs))
	}
	return nil
}

func init() {
	pluginsCmd.PersistentFlags().StringVar(&pluginFilePath, "file", "", "Path to strategy plugin YAML file")
	_ = pluginsCmd.MarkPersistentFlagRequired("file")
	pluginsVerifyCmd.Flags().StringVar(&pluginAppVersion, "app-version", engine.Version, "App version used to gate plugins")

	pluginsCmd.AddCommand(pluginsSignCmd, pluginsVerifyCmd)
	rootCmd.AddCommand(pluginsCmd)
}
