package main

import (
	"fmt"

	"github.com/chazu/brushgen/pkg/config"
	"github.com/spf13/cobra"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List the material catalog",
	Long:  "List every material name scripts can use, with its path and lightmap scale. Materials from --config are included.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cat := cfg.Catalog()
		out := cmd.OutOrStdout()
		for _, name := range cat.Names() {
			m := cat[name]
			fmt.Fprintf(out, "%-16s %-40s %d\n", name, m.Path, m.LightScale)
		}
		return nil
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write the default configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "brushgen %s\n", rootCmd.Version)
	},
}

func init() {
	rootCmd.AddCommand(materialsCmd, initConfigCmd, versionCmd)
}
