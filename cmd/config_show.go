package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		// Never echo credentials.
		if shown.ArcGIS.Token != "" {
			shown.ArcGIS.Token = "[redacted]"
		}
		if shown.Places.Key != "" {
			shown.Places.Key = "[redacted]"
		}

		data, err := yaml.Marshal(shown)
		if err != nil {
			return eris.Wrap(err, "config: marshal yaml")
		}
		cmd.Print(string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
