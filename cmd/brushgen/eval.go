package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chazu/brushgen/pkg/app"
	"github.com/spf13/cobra"
)

var (
	evalJSON    bool
	evalPreview bool
	evalSTL     string
	evalKernel  string
)

var evalCmd = &cobra.Command{
	Use:   "eval [script]",
	Short: "Evaluate a shape script and report the generated brushes",
	Long: `Evaluate a shape script, validate the design and generate its brushes.
Pass - to read the script from standard input. With --stl the brushes are
merged and written as one STL file.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "print the full result as JSON")
	evalCmd.Flags().BoolVar(&evalPreview, "preview", false, "tessellate brushes into preview meshes")
	evalCmd.Flags().StringVar(&evalSTL, "stl", "", "write the brushes to this STL file")
	evalCmd.Flags().StringVar(&evalKernel, "kernel", "", `preview kernel, "sdf" or "exact"`)
	rootCmd.AddCommand(evalCmd)
}

func readScript(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(data), nil
}

func runEval(cmd *cobra.Command, args []string) error {
	source, err := readScript(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if evalKernel != "" {
		cfg.Preview.Kernel = evalKernel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	stl := evalSTL
	if stl == "" {
		stl = cfg.Preview.STL
	}

	a := app.New(cfg, app.WithLogger(newLogger()))
	var result app.Result
	if evalPreview {
		result = a.PreviewContext(cmd.Context(), source)
	} else {
		result = a.EvaluateContext(cmd.Context(), source)
	}

	out := cmd.OutOrStdout()
	if evalJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		printSummary(out, result)
	}

	if !result.OK() {
		return fmt.Errorf("evaluation failed with %d errors", len(result.Errors))
	}
	if stl != "" {
		return a.ExportSTL(stl, result.Brushes)
	}
	return nil
}

func printSummary(w io.Writer, r app.Result) {
	for _, e := range r.Errors {
		fmt.Fprintf(w, "error: %s\n", e)
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	if !r.OK() {
		return
	}

	stats := r.Stats()
	fmt.Fprintln(w, "Brushes")
	fmt.Fprintln(w, "=======")
	for _, b := range r.Brushes {
		fmt.Fprintf(w, "  %-24s %2d sides\n", b.Name, len(b.Solid.Sides))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Solids: %d\n", stats.Solids)
	fmt.Fprintf(w, "Faces: %d\n", stats.Faces)
	fmt.Fprintf(w, "Displacements: %d\n", stats.Displacements)
	fmt.Fprintf(w, "Corrections: %d\n", len(r.Diagnostics))
	if len(r.Meshes) > 0 {
		tris := 0
		for _, m := range r.Meshes {
			tris += len(m.Indices) / 3
		}
		fmt.Fprintf(w, "Preview triangles: %d\n", tris)
	}
}
