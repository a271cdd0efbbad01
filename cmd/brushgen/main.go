package main

import (
	"fmt"
	"log"
	"os"

	"github.com/chazu/brushgen/pkg/config"
	"github.com/chazu/brushgen/version"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "brushgen",
	Short: "Generate convex map brushes from shape scripts",
	Long: `brushgen evaluates Lisp shape scripts into convex brushes for
Source-style level editors. Shapes are built from planes with texture
axes and materials, including displaced spheres, and can be previewed
as meshes or exported to STL.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (defaults built in)")
}

// loadConfig reads --config, or returns the validated defaults.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newLogger() *log.Logger {
	return log.New(os.Stderr, "brushgen: ", 0)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
